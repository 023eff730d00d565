package models

import "time"

// SectionType selects how a report section is rendered
type SectionType string

const (
	SectionText  SectionType = "text"
	SectionTable SectionType = "table"
	SectionList  SectionType = "list"
	SectionCards SectionType = "cards"
)

// TableKind records which classification produced a table
type TableKind string

const (
	TableEvents    TableKind = "events"
	TableFinancial TableKind = "financial"
)

// SectionContent is implemented by the typed payloads of a ReportSection.
type SectionContent interface {
	sectionType() SectionType
}

// TextContent is an HTML fragment
type TextContent string

// TableContent holds a header row and string cells; financial tables end with a total row
// whose first cell is empty.
type TableContent struct {
	Kind    TableKind  `json:"kind,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ListEntry is one bullet of a list section
type ListEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ListContent is the body of a list section
type ListContent []ListEntry

// Card is one headline metric
type Card struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// CardsContent is the body of a cards section
type CardsContent []Card

func (TextContent) sectionType() SectionType  { return SectionText }
func (TableContent) sectionType() SectionType { return SectionTable }
func (ListContent) sectionType() SectionType  { return SectionList }
func (CardsContent) sectionType() SectionType { return SectionCards }

// ReportSection is built per report request and never persisted
type ReportSection struct {
	Title   string         `json:"title"`
	Type    SectionType    `json:"type"`
	Content SectionContent `json:"content"`
}

// NewSection builds a section whose Type always agrees with its content.
func NewSection(title string, content SectionContent) ReportSection {
	return ReportSection{Title: title, Type: content.sectionType(), Content: content}
}

// Table returns the table payload, if any.
func (s ReportSection) Table() (TableContent, bool) {
	t, ok := s.Content.(TableContent)
	return t, ok
}

// List returns the list payload, if any.
func (s ReportSection) List() (ListContent, bool) {
	l, ok := s.Content.(ListContent)
	return l, ok
}

// ReportMetadata is attached to every generated report
type ReportMetadata struct {
	UserID     string `json:"userId"`
	FolderID   string `json:"folderId,omitempty"`
	TotalItems int    `json:"totalItems"`
}

// ReportData is the top-level container handed to the renderer
type ReportData struct {
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Sections    []ReportSection `json:"sections"`
	Metadata    ReportMetadata  `json:"metadata"`
}

// ReportConfig is the theming accepted by the HTML renderer; empty fields take defaults.
type ReportConfig struct {
	PrimaryColor   string `json:"primaryColor,omitempty" toml:"primary_color"`
	SecondaryColor string `json:"secondaryColor,omitempty" toml:"secondary_color"`
	AccentColor    string `json:"accentColor,omitempty" toml:"accent_color"`
	FontFamily     string `json:"fontFamily,omitempty" toml:"font_family"`
	Logo           string `json:"logo,omitempty" toml:"logo"`
}

// Default report theme
const (
	DefaultPrimaryColor   = "#3B82F6"
	DefaultSecondaryColor = "#60A5FA"
	DefaultAccentColor    = "#1E40AF"
	DefaultFontFamily     = "Inter, system-ui, sans-serif"
)

// WithDefaults fills unset fields from base and then from the built-in theme.
func (c ReportConfig) WithDefaults(base ReportConfig) ReportConfig {
	pick := func(v, b, d string) string {
		if v != "" {
			return v
		}
		if b != "" {
			return b
		}
		return d
	}
	return ReportConfig{
		PrimaryColor:   pick(c.PrimaryColor, base.PrimaryColor, DefaultPrimaryColor),
		SecondaryColor: pick(c.SecondaryColor, base.SecondaryColor, DefaultSecondaryColor),
		AccentColor:    pick(c.AccentColor, base.AccentColor, DefaultAccentColor),
		FontFamily:     pick(c.FontFamily, base.FontFamily, DefaultFontFamily),
		Logo:           pick(c.Logo, base.Logo, ""),
	}
}
