package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/config"
	"bidcheck/internal/domain"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the edge service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("edge service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("edge service returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusPaymentRequired:
		return domain.ErrEntitlementExhausted
	}
	if e.StatusCode >= 500 {
		return domain.ErrUpstream
	}
	return nil
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to the bidcheck edge service.
type Client struct {
	baseURL      string
	token        string
	http         *http.Client
	maxRetries   uint64
	initialDelay time.Duration
}

// NewClient creates a Client from the CLI configuration.
func NewClient(cfg config.ClientConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.ServerURL, "/"),
		token:        cfg.Token,
		http:         &http.Client{Timeout: timeout},
		maxRetries:   cfg.MaxRetries,
		initialDelay: delay,
	}
}

// Entitlement fetches the caller's entitlement status.
func (c *Client) Entitlement(ctx context.Context) (*domain.EntitlementStatus, error) {
	var status domain.EntitlementStatus
	if err := c.envelopeCall(ctx, http.MethodGet, "/api/entitlement", &status); err != nil {
		return nil, fmt.Errorf("audit.Entitlement: %w", err)
	}
	return &status, nil
}

// RecordUsage counts one completed audit against the caller.
func (c *Client) RecordUsage(ctx context.Context) (*domain.EntitlementStatus, error) {
	var status domain.EntitlementStatus
	if err := c.envelopeCall(ctx, http.MethodPost, "/api/usage", &status); err != nil {
		return nil, fmt.Errorf("audit.RecordUsage: %w", err)
	}
	return &status, nil
}

// CheckoutURL starts a subscription checkout for userID and returns its URL.
func (c *Client) CheckoutURL(ctx context.Context, userID string) (string, error) {
	url, err := c.sessionURL(ctx, "/api/create-checkout-session", userID)
	if err != nil {
		return "", fmt.Errorf("audit.CheckoutURL: %w", err)
	}
	return url, nil
}

// PortalURL opens a billing portal session for userID and returns its URL.
func (c *Client) PortalURL(ctx context.Context, userID string) (string, error) {
	url, err := c.sessionURL(ctx, "/api/create-portal-session", userID)
	if err != nil {
		return "", fmt.Errorf("audit.PortalURL: %w", err)
	}
	return url, nil
}

func (c *Client) sessionURL(ctx context.Context, path, userID string) (string, error) {
	payload, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.URL == "" {
		return "", errors.New("response carries no url")
	}
	return out.URL, nil
}

// Generate posts req to the edge service and returns the provider's raw JSON.
// Network errors, 429 and 5xx responses are retried with exponential backoff
// starting at the configured initial delay and doubling on every attempt.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("audit.Generate: encode request: %w", err)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.initialDelay))
	attempt := 0
	body, err := retry.DoValue(ctx, backoff, func(ctx context.Context) ([]byte, error) {
		attempt++
		body, err := c.do(ctx, http.MethodPost, "/api/generate", payload)
		if err == nil {
			return body, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
		log.WithFields(log.Fields{"attempt": attempt, "error": err}).Warn("generate request failed, will retry")
		return nil, retry.RetryableError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("audit.Generate: %w", err)
	}
	return body, nil
}

// envelopeCall performs a request whose success body is {success, data}.
func (c *Client) envelopeCall(ctx context.Context, method, path string, out interface{}) error {
	body, err := c.do(ctx, method, path, nil)
	if err != nil {
		return err
	}
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success || len(env.Data) == 0 {
		return errors.New("unexpected response envelope")
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, decodeAPIError(resp.StatusCode, raw)
	}
	return io.ReadAll(resp.Body)
}

// decodeAPIError accepts both the flat {"error": "msg"} shape and the
// enveloped {"error": {"code", "message"}} shape.
func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}
	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &obj); err == nil {
		apiErr.Code, apiErr.Message = obj.Code, obj.Message
	}
	return apiErr
}
