package services

import (
	"context"

	"eventdesk/internal/domain/models"
)

// FileService renders and stores ad-hoc documents requested in chat
type FileService interface {
	Generate(ctx context.Context, req *GenerateFileRequest) (*models.GeneratedFile, error)
}

// GenerateFileRequest is the generate_file payload
type GenerateFileRequest struct {
	FileType models.FileType `json:"fileType"`
	Title    string          `json:"title"`
	Fields   models.Content  `json:"fields"`
}
