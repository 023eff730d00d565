package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/domain/services"
	"eventdesk/internal/httputil"
)

// ReportHandler serves report previews and PDFs
type ReportHandler struct {
	reports services.ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports services.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger, now: time.Now}
}

// previewResponse is the body of POST /api/reports/preview
type previewResponse struct {
	Message string `json:"message"`
	HTML    string `json:"html"`
	Data    any    `json:"data"`
}

// Preview renders the report HTML
// POST /api/reports/preview
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateReportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.reports.Generate(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, previewResponse{
		Message: "Relatório gerado com sucesso! Você pode visualizá-lo agora.",
		HTML:    result.HTML,
		Data:    result.Data,
	})
}

// GeneratePDF renders the report and returns it as a PDF download
// POST /api/reports/generate-pdf
func (h *ReportHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateReportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pdf, err := h.reports.GeneratePDF(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondFile(w, "application/pdf", "relatorio_"+h.stamp()+".pdf", pdf)
}

// customHTMLRequest is the body of POST /api/reports/generate-from-html
type customHTMLRequest struct {
	HTML  string `json:"html"`
	Title string `json:"title,omitempty"`
}

// GenerateFromHTML converts caller-supplied HTML to a PDF
// POST /api/reports/generate-from-html
func (h *ReportHandler) GenerateFromHTML(w http.ResponseWriter, r *http.Request) {
	var req customHTMLRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pdf, err := h.reports.PDFFromHTML(r.Context(), req.HTML)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondFile(w, "application/pdf", customPDFName(req.Title, h.stamp()), pdf)
}

func (h *ReportHandler) stamp() string {
	return strconv.FormatInt(h.now().UnixMilli(), 10)
}

var whitespace = regexp.MustCompile(`\s+`)

// customPDFName lower-cases the title and joins words with underscores
func customPDFName(title, stamp string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "relatorio_custom"
	}
	return strings.ToLower(whitespace.ReplaceAllString(title, "_")) + "_" + stamp + ".pdf"
}
