// Package report runs the report pipeline: aggregate the workspace, narrate the
// sections and hand the result to the document renderer.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
)

const (
	DefaultTitle    = "Relatório do Workspace"
	DefaultSubtitle = "Análise consolidada das informações organizadas"
)

// Renderer turns report data into documents
type Renderer interface {
	RenderHTML(data *models.ReportData, cfg models.ReportConfig) (string, error)
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Service implements services.ReportService
type Service struct {
	aggregator *Aggregator
	renderer   Renderer
	theme      models.ReportConfig
	logger     *slog.Logger
	now        func() time.Time
}

var _ services.ReportService = (*Service)(nil)

// NewService creates the report service. theme supplies defaults for per-request config.
func NewService(aggregator *Aggregator, renderer Renderer, theme models.ReportConfig, logger *slog.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		renderer:   renderer,
		theme:      theme,
		logger:     logger,
		now:        time.Now,
	}
}

// Generate builds the report data and its HTML rendering
func (s *Service) Generate(ctx context.Context, userID string, req *services.GenerateReportRequest) (*services.ReportResult, error) {
	data, err := s.build(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	htmlDoc, err := s.renderer.RenderHTML(data, req.Config.WithDefaults(s.theme))
	if err != nil {
		return nil, &domain.UpstreamError{Service: "renderer", Err: err}
	}

	s.logger.Info("report generated",
		"user_id", userID,
		"scope", req.FolderRef,
		"sections", len(data.Sections),
		"total_items", data.Metadata.TotalItems,
	)
	return &services.ReportResult{HTML: htmlDoc, Data: data}, nil
}

// GeneratePDF runs Generate and prints the HTML to PDF
func (s *Service) GeneratePDF(ctx context.Context, userID string, req *services.GenerateReportRequest) ([]byte, error) {
	res, err := s.Generate(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return s.PDFFromHTML(ctx, res.HTML)
}

// PDFFromHTML prints caller-supplied HTML
func (s *Service) PDFFromHTML(ctx context.Context, htmlDoc string) ([]byte, error) {
	if strings.TrimSpace(htmlDoc) == "" {
		return nil, domain.NewValidation("HTML é obrigatório")
	}
	pdf, err := s.renderer.RenderPDF(ctx, htmlDoc)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "renderer", Err: fmt.Errorf("render pdf: %w", err)}
	}
	return pdf, nil
}

func (s *Service) build(ctx context.Context, userID string, req *services.GenerateReportRequest) (*models.ReportData, error) {
	agg, err := s.aggregator.Aggregate(ctx, userID, req.FolderRef)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.ReportSection, 0, len(agg.Sections)*2)
	for _, section := range agg.Sections {
		if commentary := ContextFor(section); commentary != nil {
			enriched = append(enriched, *commentary)
		}
		enriched = append(enriched, section)
	}

	sections := make([]models.ReportSection, 0, len(enriched)+2)
	sections = append(sections, Summarize(enriched, agg.TotalItems, req.Title))
	if req.IncludeCards {
		sections = append(sections, SummaryCards(agg.Sections, agg.TotalItems))
	}
	sections = append(sections, enriched...)

	return &models.ReportData{
		Title:       orDefault(req.Title, DefaultTitle),
		Subtitle:    orDefault(req.Subtitle, DefaultSubtitle),
		GeneratedAt: s.now().UTC(),
		Sections:    sections,
		Metadata: models.ReportMetadata{
			UserID:     userID,
			FolderID:   req.FolderRef,
			TotalItems: agg.TotalItems,
		},
	}, nil
}

func orDefault(v, d string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return d
}
