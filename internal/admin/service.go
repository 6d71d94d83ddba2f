package admin

import (
	"context"
	"errors"

	"docgate-backend/internal/documents"
	"docgate-backend/internal/profiles"
)

// Service exposes the moderation surface over documents and profiles.
type Service struct {
	Documents *documents.Service
	Profiles  *profiles.Service
}

func NewService(docSvc *documents.Service, profileSvc *profiles.Service) *Service {
	return &Service{Documents: docSvc, Profiles: profileSvc}
}

// ListDocuments returns every document with owner details, newest first.
func (s *Service) ListDocuments(ctx context.Context) ([]documents.DocumentWithOwner, error) {
	if s == nil || s.Documents == nil {
		return nil, errors.New("admin service not configured")
	}
	return s.Documents.ListAll(ctx)
}

// SetDocumentStatus moves any document to the given status.
func (s *Service) SetDocumentStatus(ctx context.Context, id, status string) (documents.Document, error) {
	if s == nil || s.Documents == nil {
		return documents.Document{}, errors.New("admin service not configured")
	}
	return s.Documents.SetStatus(ctx, id, status)
}

// ListUsers returns every profile with its document count.
func (s *Service) ListUsers(ctx context.Context) ([]profiles.ProfileWithDocuments, error) {
	if s == nil || s.Profiles == nil {
		return nil, errors.New("admin service not configured")
	}
	return s.Profiles.ListWithDocumentCounts(ctx)
}
