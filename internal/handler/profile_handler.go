package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bidcheck/internal/middleware"
	"bidcheck/internal/service"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Create handles POST /api/profile
func (h *ProfileHandler) Create(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	var input service.CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	profile, err := h.profileService.Create(c.Request.Context(), identity, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, profile)
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}
