package passwordreset

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/identity"
	"docgate-backend/internal/shared/server/respond"
)

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the reset endpoints. They run without a bearer
// credential; the caller is locked out of their account by definition.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/forgot-password", h.forgotPassword)
	rg.POST("/reset-password", h.resetPassword)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "a valid email is required", nil)
		return
	}

	if err := h.Svc.RequestReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, ErrUnknownEmail) {
			respond.Error(c, http.StatusNotFound, "not_found", "no account for this email", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue reset code", nil)
		return
	}
	respond.OK(c, gin.H{"message": "reset code sent"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "email, otp and newPassword are required", nil)
		return
	}

	err := h.Svc.ConfirmReset(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case err == nil:
		respond.OK(c, gin.H{"message": "password updated"})
	case errors.Is(err, ErrUnknownEmail):
		respond.Error(c, http.StatusNotFound, "not_found", "no account for this email", nil)
	case errors.Is(err, ErrInvalidOTP):
		respond.Error(c, http.StatusBadRequest, "invalid_otp", "reset code is invalid", nil)
	case errors.Is(err, ErrExpiredOTP):
		respond.Error(c, http.StatusBadRequest, "expired_otp", "reset code has expired", nil)
	case errors.Is(err, ErrWeakPassword):
		respond.Error(c, http.StatusBadRequest, "weak_password", "password must be at least 6 characters", nil)
	case errors.Is(err, identity.ErrUpstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "identity provider unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset password", nil)
	}
}
