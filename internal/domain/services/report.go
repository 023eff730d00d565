package services

import (
	"context"

	"eventdesk/internal/domain/models"
)

// ReportService runs the aggregate → narrate → render pipeline
type ReportService interface {
	Generate(ctx context.Context, userID string, req *GenerateReportRequest) (*ReportResult, error)
	GeneratePDF(ctx context.Context, userID string, req *GenerateReportRequest) ([]byte, error)
	PDFFromHTML(ctx context.Context, html string) ([]byte, error)
}

// GenerateReportRequest scopes and themes one report. FolderRef is empty (whole
// workspace), a slash path, or a folder id.
type GenerateReportRequest struct {
	FolderRef    string              `json:"folderId,omitempty"`
	Title        string              `json:"title,omitempty"`
	Subtitle     string              `json:"subtitle,omitempty"`
	Config       models.ReportConfig `json:"config"`
	IncludeCards bool                `json:"includeCards,omitempty"`
}

// ReportResult is the rendered report
type ReportResult struct {
	HTML string             `json:"html"`
	Data *models.ReportData `json:"data"`
}
