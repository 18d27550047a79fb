package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
)

// APIResponse is the standard envelope for the account API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorBody is the flat error shape used by the generation and billing endpoints.
type ErrorBody struct {
	Error string `json:"error"`
}

// URLBody is returned by the billing session endpoints.
type URLBody struct {
	URL string `json:"url"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an enveloped error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrDuplicateProfile):
		return http.StatusConflict, "DUPLICATE_PROFILE", "profile already exists for this user"
	case errors.Is(err, domain.ErrBillingCustomerAbsent):
		return http.StatusNotFound, "NO_BILLING_CUSTOMER", "no billing customer on file for this user"
	case errors.Is(err, domain.ErrEntitlementExhausted):
		return http.StatusPaymentRequired, "ENTITLEMENT_EXHAUSTED", "free audit limit reached; subscribe to continue"
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "INVALID_SIGNATURE", "invalid webhook signature"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusInternalServerError, "UPSTREAM_ERROR", "AI provider request failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the enveloped error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	logServerError(c, status, err)
	RespondError(c, status, code, msg)
}

// HandleFlatError maps a domain error and sends a {"error": msg} response.
func HandleFlatError(c *gin.Context, err error) {
	status, _, msg := MapDomainError(err)
	logServerError(c, status, err)
	c.JSON(status, ErrorBody{Error: msg})
}

func logServerError(c *gin.Context, status int, err error) {
	if status < 500 {
		return
	}
	requestID, _ := c.Get("request_id")
	log.WithField("request_id", requestID).WithError(err).Error("internal error")
}
