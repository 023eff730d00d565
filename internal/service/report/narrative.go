package report

import (
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/textutil"
)

const (
	summaryTitle         = "Resumo Executivo"
	commentaryPrefix     = "Análise: "
	minCommentaryRows    = 2
	summaryWrapper       = `<div style="margin-bottom: 24px;"><p style="line-height:1.6; color:#374151;">%s</p></div>`
	commentaryWrapper    = `<div style="background:#f3f4ff; border-left:4px solid #3b82f6; padding:12px 16px; margin-bottom:16px; border-radius:4px;"><p style="margin:0; line-height:1.5; color:#1f2933;">%s</p></div>`
	summaryClosingPhrase = "Em conjunto, essas informações fornecem uma visão estruturada do planejamento, execução e controle dos eventos, servindo como base para tomada de decisão, alinhamento com o cliente e identificação de próximos passos."
)

// Summarize builds the executive summary that opens every report.
func Summarize(sections []models.ReportSection, totalItems int, title string) models.ReportSection {
	var hasEvents, hasFinance, hasLists bool
	events := 0
	for _, s := range sections {
		hasEvents = hasEvents || textutil.ContainsAny(s.Title, "evento")
		hasFinance = hasFinance || textutil.ContainsAny(s.Title, "financeiro")
		hasLists = hasLists || s.Type == models.SectionList
		if t, ok := s.Table(); ok && t.Kind == models.TableEvents {
			events += len(t.Rows)
		}
	}

	focus := ""
	if title = strings.TrimSpace(title); title != "" {
		focus = fmt.Sprintf(` focado em "%s"`, html.EscapeString(title))
	}
	parts := []string{
		fmt.Sprintf("Este relatório apresenta uma visão consolidada do workspace%s, destacando os principais elementos registrados até o momento.", focus),
	}
	if totalItems > 0 {
		parts = append(parts, fmt.Sprintf("Ao todo, foram considerados %d %s cadastrados em diferentes pastas e categorias.",
			totalItems, plural(totalItems, "item", "itens")))
	}
	if hasEvents {
		count := ""
		if events > 0 {
			count = fmt.Sprintf(", somando %d %s", events, plural(events, "evento registrado", "eventos registrados"))
		}
		parts = append(parts, fmt.Sprintf("Foram identificadas seções diretamente relacionadas a eventos%s, contemplando informações como datas, locais e número de participantes, o que permite uma leitura clara do calendário e da dimensão de cada iniciativa.", count))
	}
	if hasFinance {
		parts = append(parts, "Há também blocos de dados financeiros, que reúnem valores por item e fornecedor, facilitando o acompanhamento de orçamento, compromissos assumidos e status de pagamentos.")
	}
	if hasLists {
		parts = append(parts, "Além disso, listas complementares reúnem anotações, tarefas e registros diversos, ajudando a manter o contexto operacional organizado em torno de cada evento ou área de trabalho.")
	}
	parts = append(parts, summaryClosingPhrase)

	return models.NewSection(summaryTitle, models.TextContent(fmt.Sprintf(summaryWrapper, strings.Join(parts, " "))))
}

// ContextFor returns the commentary placed before section, or nil when the
// section is text or has fewer than two data rows.
func ContextFor(section models.ReportSection) *models.ReportSection {
	var text string
	switch c := section.Content.(type) {
	case models.TableContent:
		switch {
		case isEventsTable(section.Title, c):
			text = eventsContext(c.Rows)
		case isFinancialTable(section.Title, c):
			text = financialContext(c.Rows)
		}
	case models.ListContent:
		text = listContext(c, section.Title)
	}
	if text == "" {
		return nil
	}
	out := models.NewSection(commentaryPrefix+section.Title, models.TextContent(fmt.Sprintf(commentaryWrapper, text)))
	return &out
}

func isEventsTable(title string, t models.TableContent) bool {
	if t.Kind != "" {
		return t.Kind == models.TableEvents
	}
	return slices.Contains(t.Headers, "Evento") || textutil.ContainsAny(title, "evento")
}

func isFinancialTable(title string, t models.TableContent) bool {
	if t.Kind != "" {
		return t.Kind == models.TableFinancial
	}
	return slices.Contains(t.Headers, "Valor") || textutil.ContainsAny(title, "financeiro")
}

func eventsContext(rows [][]string) string {
	if len(rows) < minCommentaryRows {
		return ""
	}
	n := len(rows)
	var b strings.Builder
	fmt.Fprintf(&b, "Esta seção reúne informações de %d %s %s, permitindo uma leitura rápida do calendário e da escala de participação.",
		n, plural(n, "evento", "eventos"), plural(n, "planejado", "planejados"))

	var highlights []string
	audience := 0
	for _, row := range rows {
		name, date, place, people := cell(row, 0), cell(row, 1), cell(row, 2), cell(row, 3)
		audience += leadingInt(people)
		if name == "" {
			continue
		}
		var details []string
		if people != "" {
			noun := "participantes"
			if people == "1" {
				noun = "participante"
			}
			details = append(details, people+" "+noun)
		}
		if date != "" {
			details = append(details, "agendado para "+date)
		}
		if place != "" {
			details = append(details, "no local "+place)
		}
		h := name
		if len(details) > 0 {
			h += " — " + strings.Join(details, ", ")
		}
		highlights = append(highlights, html.EscapeString(h))
	}
	if len(highlights) > 0 {
		fmt.Fprintf(&b, " Entre os destaques, podemos citar: %s.", strings.Join(highlights, "; "))
	}
	if audience > 0 {
		fmt.Fprintf(&b, " No conjunto, estima-se um público total aproximado de %d participantes.", audience)
	}
	b.WriteString(" Esses dados ajudam a dimensionar necessidades de infraestrutura, equipe e comunicação para cada ocasião.")
	return b.String()
}

func financialContext(rows [][]string) string {
	var entries [][]string
	var totalRow []string
	for _, row := range rows {
		if isTotalRow(row) {
			totalRow = row
			continue
		}
		entries = append(entries, row)
	}
	if len(entries) < minCommentaryRows {
		return ""
	}

	n := len(entries)
	var b strings.Builder
	fmt.Fprintf(&b, "Esta seção consolida %d %s %s, agrupando valores, fornecedores e status de pagamento.",
		n, plural(n, "lançamento", "lançamentos"), plural(n, "financeiro", "financeiros"))
	if v := cell(totalRow, 2); v != "" {
		fmt.Fprintf(&b, " O somatório atual indica um comprometimento financeiro de %s.", v)
	}

	suppliers := make(map[string]struct{})
	pending, paid := 0, 0
	for _, row := range entries {
		if s := cell(row, 1); s != "" && s != "TOTAL" {
			suppliers[s] = struct{}{}
		}
		status := strings.ToLower(cell(row, 3))
		switch {
		case strings.Contains(status, "pendente"):
			pending++
		case strings.Contains(status, "pago"), strings.Contains(status, "conclu"):
			paid++
		}
	}
	if k := len(suppliers); k > 0 {
		fmt.Fprintf(&b, " Foram identificados %d %s distintos, o que mostra diversificação de parceiros envolvidos.",
			k, plural(k, "fornecedor", "fornecedores"))
	}
	if pending > 0 || paid > 0 {
		fmt.Fprintf(&b, " Em relação ao status dos pagamentos, %d %s como pago/concluído e %d como %s. Esse panorama contribui para monitorar fluxo de caixa e próximos desembolsos.",
			paid, plural(paid, "registro está marcado", "registros estão marcados"),
			pending, plural(pending, "pendente", "pendentes"))
	}
	return b.String()
}

func listContext(list models.ListContent, title string) string {
	if len(list) < minCommentaryRows {
		return ""
	}
	n := len(list)
	withDescription, withTags := 0, 0
	for _, e := range list {
		if d := strings.TrimSpace(e.Description); d != "" && d != missingCell {
			withDescription++
		}
		if len(e.Tags) > 0 {
			withTags++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Esta seção organiza %d registros em formato de lista, reunindo informações complementares relacionadas a "%s".`,
		n, html.EscapeString(title))
	if withDescription > 0 {
		fmt.Fprintf(&b, " %d %s com descrição detalhada, o que facilita a compreensão do contexto.",
			withDescription, plural(withDescription, "item conta", "itens contam"))
	}
	if withTags > 0 {
		fmt.Fprintf(&b, " %d %s, permitindo filtragens e buscas mais rápidas por tema ou categoria.",
			withTags, plural(withTags, "registro está etiquetado", "registros estão etiquetados"))
	}
	return b.String()
}

// cell returns row[i], treating the "-" placeholder and out-of-range as empty
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if v == missingCell {
		return ""
	}
	return v
}

// leadingInt parses the leading digits of s ("200 pessoas" is 200); anything else is 0
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
