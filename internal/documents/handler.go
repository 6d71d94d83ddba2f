package documents

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/shared/server/middleware"
	"docgate-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/my-documents", h.list)
	rg.POST("/upload", h.upload)
	rg.DELETE("/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	access := middleware.Access(c)
	if access == nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
		return
	}

	docs, err := h.Svc.ListOwned(c.Request.Context(), access.Identity.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) upload(c *gin.Context) {
	access := middleware.Access(c)
	if access == nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
		return
	}

	// Bound the whole multipart body; the per-file limit is enforced
	// again in the service.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+512*1024)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 10 MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "document file is required", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		OwnerID:     access.Identity.ID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "only PDF, PNG and JPEG files are accepted", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 10 MB limit", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
		}
		return
	}

	respond.Created(c, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	access := middleware.Access(c)
	if access == nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
		return
	}

	err := h.Svc.Delete(c.Request.Context(), access.Identity.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "only the owner can delete a document", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}
	respond.OK(c, gin.H{"message": "document deleted"})
}
