package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/documents"
	"docgate-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches moderation routes. The group must already be
// behind the admin gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.listDocuments)
	rg.PATCH("/documents/:id/status", h.setStatus)
	rg.GET("/users", h.listUsers)
}

func (h *Handler) listDocuments(c *gin.Context) {
	items, err := h.Svc.ListDocuments(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	resp := make([]documentResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toDocumentResponse(item))
	}
	respond.OK(c, resp)
}

func (h *Handler) setStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "status is required", nil)
		return
	}

	doc, err := h.Svc.SetDocumentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_status", "status must be approved or rejected", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"id":     doc.ID,
		"status": string(doc.Status),
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	items, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	resp := make([]userResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toUserResponse(item))
	}
	respond.OK(c, resp)
}
