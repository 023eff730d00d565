package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes scripts, event handlers and javascript: URLs from
// caller-supplied report markup. Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer keeps common formatting, tables and images, and the class and
// inline style attributes the report template relies on.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Globally()
	policy.AllowStyling()
	policy.AllowAttrs("style").OnElements("div", "p", "span", "td", "th", "tr", "table")

	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer strips every tag and keeps text only
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns the cleaned markup
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
