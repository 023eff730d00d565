package render

import (
	"time"

	"eventdesk/internal/render/converter"
)

// Documents pairs the HTML and PDF renderers the report pipeline needs
type Documents struct {
	*HTMLRenderer
	*PDFRenderer
}

// NewDocuments builds both renderers. Timestamps print in loc (UTC when nil).
func NewDocuments(loc *time.Location) (*Documents, error) {
	html, err := NewHTMLRenderer(loc)
	if err != nil {
		return nil, err
	}
	return &Documents{
		HTMLRenderer: html,
		PDFRenderer:  NewPDFRenderer(converter.NewHTMLConverter()),
	}, nil
}
