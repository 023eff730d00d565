package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"eventdesk/internal/render/converter"
)

// A4 page with 20mm top/bottom and 15mm side margins
const (
	pageMarginTop  = 20.0
	pageMarginSide = 15.0
	lineHeight     = 6.0
)

var (
	headingLine   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletLine    = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	tableRule     = regexp.MustCompile(`^\|?\s*:?-{3,}`)
	markdownMarks = strings.NewReplacer("**", "", "__", "", "\\", "", "`", "")
)

// PDFRenderer prints HTML documents to PDF by flattening them to markdown and
// laying the blocks out with core fonts.
type PDFRenderer struct {
	converter *converter.HTMLConverter
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer(conv *converter.HTMLConverter) *PDFRenderer {
	return &PDFRenderer{converter: conv}
}

// RenderPDF converts a sanitized copy of html into PDF bytes
func (r *PDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	markdown, err := r.converter.ToMarkdown(html)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return MarkdownPDF(markdown)
}

// MarkdownPDF lays out headings, bullets, tables and paragraphs of markdown
func MarkdownPDF(markdown string) ([]byte, error) {
	pdf := newDocument()
	tr := latin1(pdf)

	var table [][]string
	flushTable := func() {
		if len(table) > 0 {
			writeTable(pdf, tr, table)
			table = nil
		}
	}

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "|") {
			if !tableRule.MatchString(trimmed) {
				table = append(table, splitRow(trimmed))
			}
			continue
		}
		flushTable()

		switch {
		case trimmed == "":
			pdf.Ln(2)
		case headingLine.MatchString(trimmed):
			m := headingLine.FindStringSubmatch(trimmed)
			size := 16.0 - float64(len(m[1]))*1.5
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, size*0.5, tr(clean(m[2])), "", "L", false)
			pdf.Ln(1)
		case bulletLine.MatchString(line):
			m := bulletLine.FindStringSubmatch(line)
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineHeight, tr("• "+clean(m[1])), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineHeight, tr(clean(trimmed)), "", "L", false)
		}
	}
	flushTable()

	return output(pdf)
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginSide, pageMarginTop, pageMarginSide)
	pdf.SetAutoPageBreak(true, pageMarginTop)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, rows [][]string) {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}
	pageW, _ := pdf.GetPageSize()
	width := (pageW - 2*pageMarginSide) / float64(cols)

	for i, row := range rows {
		style := ""
		if i == 0 {
			style = "B"
			pdf.SetFillColor(226, 232, 240)
		}
		pdf.SetFont("Helvetica", style, 9)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row) {
				text = clean(row[c])
			}
			pdf.CellFormat(width, 7, tr(text), "1", 0, "L", i == 0, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func splitRow(line string) []string {
	line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func clean(s string) string {
	return strings.TrimSpace(markdownMarks.Replace(s))
}

// latin1 returns a translator into the code page of the core fonts. Runes the
// code page cannot show (emoji, most symbols) are dropped first.
func latin1(pdf *fpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(strings.Map(func(r rune) rune {
			switch {
			case r < 0x100:
				return r
			case strings.ContainsRune("•–—‘’“”€…", r):
				return r
			}
			return -1
		}, s))
	}
}
