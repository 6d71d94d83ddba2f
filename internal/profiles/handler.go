package profiles

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/shared/server/middleware"
	"docgate-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.getProfile)
	rg.POST("/create-profile", h.createProfile)
}

// getProfile returns the caller's profile, provisioning one on first
// contact so a freshly signed-up identity never sees a 404 here.
func (h *Handler) getProfile(c *gin.Context) {
	access := middleware.Access(c)
	if access == nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
		return
	}
	profile, err := h.Svc.GetOrCreate(c.Request.Context(), access.Identity)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			respond.Error(c, http.StatusConflict, "conflict", "a profile with this email already exists", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	respond.OK(c, toProfileResponse(profile))
}

func (h *Handler) createProfile(c *gin.Context) {
	access := middleware.Access(c)
	if access == nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
		return
	}

	// The body is optional; it may carry display-name and role overrides.
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "malformed request body", nil)
		return
	}

	profile, err := h.Svc.Create(c.Request.Context(), access.Identity, req.FullName, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			respond.Error(c, http.StatusConflict, "conflict", "profile already exists", nil)
		case errors.Is(err, ErrInvalidRole):
			respond.Error(c, http.StatusBadRequest, "invalid_request", "role must be customer or admin", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create profile", nil)
		}
		return
	}
	respond.Created(c, toProfileResponse(profile))
}
