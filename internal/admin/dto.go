package admin

import (
	"time"

	"docgate-backend/internal/documents"
	"docgate-backend/internal/profiles"
)

type ownerInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type documentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	SizeBytes  int64     `json:"sizeBytes"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
	Owner      ownerInfo `json:"owner"`
}

func toDocumentResponse(item documents.DocumentWithOwner) documentResponse {
	return documentResponse{
		ID:         item.ID,
		FileName:   item.FileName,
		FileType:   item.FileType,
		SizeBytes:  item.SizeBytes,
		URL:        item.StorageURL,
		Status:     string(item.Status),
		UploadedAt: item.UploadedAt,
		Owner: ownerInfo{
			ID:       string(item.OwnerID),
			Email:    item.OwnerEmail,
			FullName: item.OwnerName,
			Role:     string(item.OwnerRole),
		},
	}
}

type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	DocumentCount int       `json:"documentCount"`
}

func toUserResponse(item profiles.ProfileWithDocuments) userResponse {
	return userResponse{
		ID:            string(item.ID),
		Email:         item.Email,
		FullName:      item.FullName,
		Role:          string(item.Role),
		CreatedAt:     item.CreatedAt,
		DocumentCount: item.DocumentCount,
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}
