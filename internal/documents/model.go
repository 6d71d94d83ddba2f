package documents

import (
	"time"

	"docgate-backend/internal/identity"
)

// Status is the moderation state of a document. Every upload starts
// pending; only admins move it from there.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus maps a raw string onto a known status.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), true
	default:
		return "", false
	}
}

// Document is an uploaded file owned by a profile.
type Document struct {
	ID         string
	OwnerID    identity.ID
	FileName   string
	FileType   string
	SizeBytes  int64
	StorageURL string
	StorageID  string
	Status     Status
	UploadedAt time.Time
}

// DocumentWithOwner decorates a document with owner details for
// moderation listings.
type DocumentWithOwner struct {
	Document
	OwnerEmail string
	OwnerName  string
	OwnerRole  identity.Role
}
