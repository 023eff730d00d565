package converter

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"eventdesk/internal/render/converter/sanitizer"
)

// HTMLConverter flattens report HTML into markdown for the PDF writer.
// Input is sanitized first, so caller-supplied documents are safe to feed in.
type HTMLConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a converter with GitHub-flavored tables enabled
func NewHTMLConverter() *HTMLConverter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Remove("head", "style", "script", "title")

	return &HTMLConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: conv,
	}
}

// Sanitize exposes the sanitizing stage on its own
func (c *HTMLConverter) Sanitize(html string) string {
	return c.sanitizer.Sanitize(html)
}

// ToMarkdown sanitizes html and converts it to markdown
func (c *HTMLConverter) ToMarkdown(html string) (string, error) {
	sanitized := c.sanitizer.Sanitize(html)
	if strings.TrimSpace(sanitized) == "" {
		return "", nil
	}

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return markdown, nil
}

// PlainText strips every tag from html
func PlainText(html string) string {
	return strings.TrimSpace(sanitizer.NewStrictHTMLSanitizer().Sanitize(html))
}
