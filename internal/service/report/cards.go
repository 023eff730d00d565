package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/textutil"
)

const cardsTitle = "Visão Geral"

// SummaryCards builds the headline metrics from the aggregated sections.
// The events card appears only when event rows exist and the investment card
// only when the financial total is positive.
func SummaryCards(sections []models.ReportSection, totalItems int) models.ReportSection {
	events := 0
	invested := decimal.Zero
	for _, s := range sections {
		t, ok := s.Table()
		if !ok {
			continue
		}
		switch {
		case t.Kind == models.TableEvents || (t.Kind == "" && textutil.ContainsAny(s.Title, "evento", "aniversario")):
			events += len(t.Rows)
		case t.Kind == models.TableFinancial || (t.Kind == "" && textutil.ContainsAny(s.Title, "financeiro", "pagamento")):
			invested = invested.Add(FinancialTotal(t))
		}
	}

	cards := models.CardsContent{
		{Value: strconv.Itoa(totalItems) + "+", Label: "Itens organizados no workspace", Icon: "📁"},
		{Value: strconv.Itoa(len(sections)), Label: "Categorias ativas", Icon: "🗂️"},
	}
	if events > 0 {
		cards = append(cards, models.Card{Value: strconv.Itoa(events), Label: "Eventos registrados", Icon: "🎉"})
	}
	if invested.IsPositive() {
		cards = append(cards, models.Card{
			Value: strings.TrimSuffix(FormatBRL(invested), ",00"),
			Label: "Investimento total",
			Icon:  "💰",
		})
	}
	return models.NewSection(cardsTitle, cards)
}
