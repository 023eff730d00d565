// Package render produces the documents handed back to users: themed HTML reports,
// their PDF prints, and the ad-hoc files requested in chat.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/textutil"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20})$`)
	fontPattern  = regexp.MustCompile(`^[\w\s,\-"']{1,120}$`)
)

type themeView struct {
	Primary, Secondary, Accent template.CSS
	FontFamily                 template.CSS
}

type rowView struct {
	Cells []string
	Total bool
}

type tableView struct {
	Headers []string
	Rows    []rowView
}

type sectionView struct {
	Kind     models.SectionType
	Title    string
	Icon     string
	Text     template.HTML
	Analysis bool
	Table    *tableView
	List     models.ListContent
	Cards    models.CardsContent
}

type reportView struct {
	Title       string
	Subtitle    string
	Logo        template.URL
	GeneratedAt string
	Year        int
	Theme       themeView
	Sections    []sectionView
}

// HTMLRenderer renders ReportData with the embedded report template
type HTMLRenderer struct {
	tmpl     *template.Template
	location *time.Location
}

// NewHTMLRenderer parses the embedded template. Timestamps print in loc (UTC when nil).
func NewHTMLRenderer(loc *time.Location) (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &HTMLRenderer{tmpl: tmpl, location: loc}, nil
}

// RenderHTML renders a complete standalone HTML document
func (r *HTMLRenderer) RenderHTML(data *models.ReportData, cfg models.ReportConfig) (string, error) {
	cfg = cfg.WithDefaults(models.ReportConfig{})
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	generated = generated.In(r.location)

	view := reportView{
		Title:       data.Title,
		Subtitle:    data.Subtitle,
		Logo:        safeLogo(cfg.Logo),
		GeneratedAt: FormatLongDate(generated),
		Year:        time.Now().In(r.location).Year(),
		Theme: themeView{
			Primary:    safeCSS(cfg.PrimaryColor, colorPattern, models.DefaultPrimaryColor),
			Secondary:  safeCSS(cfg.SecondaryColor, colorPattern, models.DefaultSecondaryColor),
			Accent:     safeCSS(cfg.AccentColor, colorPattern, models.DefaultAccentColor),
			FontFamily: safeCSS(cfg.FontFamily, fontPattern, models.DefaultFontFamily),
		},
		Sections: make([]sectionView, 0, len(data.Sections)),
	}
	if view.Subtitle == "" {
		view.Subtitle = "Relatório Consolidado"
	}
	for _, s := range data.Sections {
		view.Sections = append(view.Sections, viewSection(s))
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return buf.String(), nil
}

func viewSection(s models.ReportSection) sectionView {
	v := sectionView{Kind: s.Type, Title: s.Title}
	switch c := s.Content.(type) {
	case models.CardsContent:
		v.Icon = "📊"
		v.Cards = c
	case models.TableContent:
		v.Icon = "📋"
		if textutil.ContainsAny(s.Title, "financeiro") {
			v.Icon = "💰"
		}
		t := &tableView{Headers: c.Headers, Rows: make([]rowView, 0, len(c.Rows))}
		for _, row := range c.Rows {
			t.Rows = append(t.Rows, rowView{Cells: row, Total: len(row) > 0 && row[0] == ""})
		}
		v.Table = t
	case models.ListContent:
		v.Icon = "📝"
		v.List = c
	case models.TextContent:
		v.Analysis = strings.Contains(strings.ToLower(s.Title), "análise")
		v.Icon = "📄"
		if v.Analysis {
			v.Icon = "🔍"
		}
		// text sections carry trusted markup built by the narrative generator
		v.Text = template.HTML(c)
	default:
		v.Kind = models.SectionText
		v.Icon = "📄"
	}
	return v
}

func safeCSS(v string, pattern *regexp.Regexp, fallback string) template.CSS {
	if v = strings.TrimSpace(v); v != "" && pattern.MatchString(v) {
		return template.CSS(v)
	}
	return template.CSS(fallback)
}

func safeLogo(v string) template.URL {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, "https://"), strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "/"),
		strings.HasPrefix(v, "data:image/"):
		return template.URL(v)
	}
	return ""
}

var monthsPTBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatLongDate prints t as "14 de outubro de 2026 às 09:05"
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d às %02d:%02d",
		t.Day(), monthsPTBR[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
