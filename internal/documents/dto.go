package documents

import "time"

type documentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	SizeBytes  int64     `json:"sizeBytes"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) documentResponse {
	return documentResponse{
		ID:         doc.ID,
		FileName:   doc.FileName,
		FileType:   doc.FileType,
		SizeBytes:  doc.SizeBytes,
		URL:        doc.StorageURL,
		Status:     string(doc.Status),
		UploadedAt: doc.UploadedAt,
	}
}
