package render

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain/models"
)

func renderDoc(t *testing.T, data *models.ReportData, cfg models.ReportConfig) (*goquery.Document, string) {
	t.Helper()
	r, err := NewHTMLRenderer(time.UTC)
	require.NoError(t, err)
	out, err := r.RenderHTML(data, cfg)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc, out
}

func sampleReport() *models.ReportData {
	return &models.ReportData{
		Title:       "Relatório <Coca-Cola>",
		GeneratedAt: time.Date(2026, time.October, 14, 9, 5, 0, 0, time.UTC),
		Sections: []models.ReportSection{
			models.NewSection("Resumo Executivo", models.TextContent("<p>Texto <strong>forte</strong></p>")),
			models.NewSection("Visão Geral", models.CardsContent{
				{Value: "3+", Label: "Itens organizados no workspace", Icon: "📁"},
				{Value: "2", Label: "Categorias ativas", Description: "pastas"},
			}),
			models.NewSection("Análise: Financeiro", models.TextContent("<p>ok</p>")),
			models.NewSection("Financeiro", models.TableContent{
				Kind:    models.TableFinancial,
				Headers: []string{"Item", "Fornecedor/Responsável", "Valor", "Status"},
				Rows: [][]string{
					{"<script>alert(1)</script>", "ABC", "R$ 10,00", "Pago"},
					{"", "TOTAL", "R$ 10,00", ""},
				},
			}),
			models.NewSection("Notas", models.ListContent{
				{Title: "Ideia", Description: "Texto: x", Tags: []string{"vip", "urgente"}},
				{Title: "Sem detalhes", Tags: []string{}},
			}),
		},
	}
}

func TestRenderHTML_Structure(t *testing.T) {
	doc, out := renderDoc(t, sampleReport(), models.ReportConfig{})

	assert.Equal(t, "Relatório <Coca-Cola>", doc.Find("h1").Text())
	assert.Equal(t, "Relatório Consolidado", doc.Find(".report-subtitle").Text())
	assert.Contains(t, doc.Find(".report-meta").Text(), "14 de outubro de 2026 às 09:05")
	assert.Equal(t, 5, doc.Find(".section").Length())

	icons := []string{}
	doc.Find(".section-icon").Each(func(_ int, s *goquery.Selection) {
		icons = append(icons, s.Text())
	})
	assert.Equal(t, []string{"📄", "📊", "🔍", "💰", "📝"}, icons)

	assert.Equal(t, 2, doc.Find(".hero-card").Length())
	assert.Equal(t, 1, doc.Find(".hero-card-description").Length())
	assert.Equal(t, "forte", doc.Find(".text-block strong").Text())
	assert.Equal(t, 1, doc.Find(".analysis-block").Length())

	total := doc.Find("tr.total-row td")
	require.Equal(t, 4, total.Length())
	style, _ := total.Eq(1).Attr("style")
	assert.Contains(t, style, "text-align: right")

	assert.Equal(t, 2, doc.Find(".list-item-modern").Length())
	assert.Equal(t, 2, doc.Find(".item-tag").Length())
	assert.Equal(t, 1, doc.Find(".list-item-content").Length())

	assert.NotContains(t, out, "<script>alert(1)</script>", "cells are escaped")
	assert.Contains(t, doc.Find(".report-footer").Text(), "Powered by IA")
}

func TestRenderHTML_Theme(t *testing.T) {
	tests := []struct {
		name    string
		cfg     models.ReportConfig
		want    []string
		notWant []string
	}{
		{
			name: "defaults",
			want: []string{models.DefaultPrimaryColor, models.DefaultAccentColor, "Inter, system-ui, sans-serif"},
		},
		{
			name: "custom",
			cfg:  models.ReportConfig{PrimaryColor: "#FF0000", FontFamily: "Georgia, serif"},
			want: []string{"#FF0000", "Georgia, serif", models.DefaultSecondaryColor},
		},
		{
			name:    "hostile values fall back",
			cfg:     models.ReportConfig{PrimaryColor: "red;}</style><script>x()</script>", FontFamily: "a}</style>"},
			want:    []string{models.DefaultPrimaryColor, models.DefaultFontFamily},
			notWant: []string{"<script>x()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := renderDoc(t, &models.ReportData{Title: "T"}, tt.cfg)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestRenderHTML_Logo(t *testing.T) {
	doc, _ := renderDoc(t, &models.ReportData{Title: "T"}, models.ReportConfig{Logo: "https://cdn.example.com/logo.png"})
	src, ok := doc.Find("img.logo").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/logo.png", src)

	doc, _ = renderDoc(t, &models.ReportData{Title: "T"}, models.ReportConfig{Logo: "javascript:alert(1)"})
	assert.Zero(t, doc.Find("img.logo").Length())
}

func TestFormatLongDate(t *testing.T) {
	got := FormatLongDate(time.Date(2026, time.March, 1, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, "01 de março de 2026 às 18:30", got)
}
