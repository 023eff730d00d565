package report

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/render"
	"eventdesk/internal/render/converter"
	"eventdesk/internal/repository/memory"
	"eventdesk/internal/service/workspace"
)

type fixture struct {
	store   *workspace.Store
	agg     *Aggregator
	service *Service
	mem     *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := memory.NewStore()
	resolver := workspace.NewPathResolver(mem.Folders(), mem.TxManager(), logger)
	store := workspace.NewStore(mem.Folders(), mem.Items(), resolver, mem.TxManager(), nil, logger)
	agg := NewAggregator(mem.Folders(), mem.Items(), resolver, logger)

	htmlRenderer, err := render.NewHTMLRenderer(nil)
	require.NoError(t, err)
	renderer := struct {
		*render.HTMLRenderer
		*render.PDFRenderer
	}{htmlRenderer, render.NewPDFRenderer(converter.NewHTMLConverter())}

	return &fixture{
		store:   store,
		agg:     agg,
		service: NewService(agg, renderer, models.ReportConfig{}, logger),
		mem:     mem,
	}
}

func (f *fixture) add(t *testing.T, userID string, path []string, title string, content any, tags ...string) {
	t.Helper()
	_, err := f.store.AddItem(context.Background(), userID, services.FolderByPath(path...), &services.AddItemRequest{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	require.NoError(t, err)
}

func TestAggregate_EmptyFolderPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, err := f.store.CreateFolder(ctx, "u1", &services.CreateFolderRequest{Name: "Vazia"})
	require.NoError(t, err)

	agg, err := f.agg.Aggregate(ctx, "u1", folder.ID)
	require.NoError(t, err)
	require.Len(t, agg.Sections, 1)
	assert.Equal(t, "Vazia", agg.Sections[0].Title)
	assert.Equal(t, models.SectionText, agg.Sections[0].Type)
	assert.Contains(t, string(agg.Sections[0].Content.(models.TextContent)), "Nenhum item registrado")
	assert.Zero(t, agg.TotalItems)
}

func TestAggregate_Scopes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "u1", []string{"Eventos", "Coca-Cola"}, "Lançamento", map[string]any{"data": "10/11", "participantes": float64(150)})
	f.add(t, "u1", []string{"Eventos", "Coca-Cola", "Fornecedores"}, "Buffet", map[string]any{"fornecedor": "ABC"})
	f.add(t, "u1", []string{"Financeiro"}, "Som", map[string]any{"valor": "R$ 1.000,50"})
	f.add(t, "u1", []string{"Financeiro"}, "Luz", map[string]any{"valor": "250,00"})
	f.add(t, "u2", []string{"Eventos", "Coca-Cola"}, "Alheio", "x")

	coca, err := f.mem.Folders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	var cocaID string
	for _, folder := range coca {
		if folder.Name == "Coca-Cola" {
			cocaID = folder.ID
		}
	}
	require.NotEmpty(t, cocaID)

	tests := []struct {
		name   string
		user   string
		scope  string
		titles []string
		total  int
	}{
		{"path", "u1", "Eventos/Coca-Cola", []string{"Coca-Cola", "Coca-Cola > Fornecedores"}, 2},
		{"path is case-insensitive", "u1", "eventos / COCA-COLA", []string{"Coca-Cola", "Coca-Cola > Fornecedores"}, 2},
		{"id", "u1", cocaID, []string{"Coca-Cola", "Coca-Cola > Fornecedores"}, 2},
		{"missing path", "u1", "Eventos/Pepsi", nil, 0},
		{"foreign id", "u2", cocaID, nil, 0},
		{"malformed id", "u1", "not-a-uuid", nil, 0},
		{"whole workspace", "u1", "", []string{"Financeiro", "Eventos > Coca-Cola", "Eventos > Coca-Cola > Fornecedores"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := f.agg.Aggregate(ctx, tt.user, tt.scope)
			require.NoError(t, err)
			titles := []string{}
			for _, s := range agg.Sections {
				titles = append(titles, s.Title)
			}
			if tt.titles == nil {
				tt.titles = []string{}
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, tt.total, agg.TotalItems)
		})
	}
}

func TestAggregate_WorkspaceOfEmptyFolders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	agg, err := f.agg.Aggregate(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, agg.Sections)

	for _, name := range []string{"Eventos", "Compras"} {
		_, err := f.store.CreateFolder(ctx, "u1", &services.CreateFolderRequest{Name: name})
		require.NoError(t, err)
	}

	agg, err = f.agg.Aggregate(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, agg.Sections, 1)
	assert.Equal(t, "Workspace", agg.Sections[0].Title)
	assert.Equal(t, models.SectionText, agg.Sections[0].Type)
	assert.Contains(t, string(agg.Sections[0].Content.(models.TextContent)), "Nenhum item registrado")
	assert.Zero(t, agg.TotalItems)
}

func TestAggregate_Classification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "u1", []string{"Eventos"}, "Lançamento", map[string]any{
		"dataRealizacao": "10/11", "cidade": "São Paulo", "numeroParticipantes": float64(150),
	})
	f.add(t, "u1", []string{"Eventos", "Coca-Cola", "Pagamentos"}, "Buffet", map[string]any{
		"preço": "R$ 1.000,50", "responsável": "ABC", "situação": "Pago",
	})
	f.add(t, "u1", []string{"Eventos", "Coca-Cola", "Pagamentos"}, "Som", map[string]any{"total": "250,00"})
	f.add(t, "u1", []string{"Eventos", "Coca-Cola", "Fornecedores"}, "Buffet XYZ", map[string]any{"contato": "Ana"})
	f.add(t, "u1", []string{"Eventos", "Coca-Cola", "Fornecedores"}, "Som ABC", map[string]any{"contato": "Rui"})
	f.add(t, "u1", []string{"Notas"}, "Ideia", map[string]any{"nomeContato": "Ana", "vazio": "", "ativo": true}, "vip")

	section := func(scope string) models.ReportSection {
		t.Helper()
		agg, err := f.agg.Aggregate(ctx, "u1", scope)
		require.NoError(t, err)
		require.NotEmpty(t, agg.Sections)
		return agg.Sections[0]
	}

	events, ok := section("Eventos/").Table()
	require.True(t, ok)
	assert.Equal(t, models.TableEvents, events.Kind)
	assert.Equal(t, [][]string{{"Lançamento", "10/11", "São Paulo", "150"}}, events.Rows)

	money, ok := section("Eventos/Coca-Cola/Pagamentos").Table()
	require.True(t, ok)
	assert.Equal(t, models.TableFinancial, money.Kind)
	assert.Equal(t, [][]string{
		{"Buffet", "ABC", "R$ 1.000,50", "Pago"},
		{"Som", "-", "R$ 250,00", "Pendente"},
		{"", "TOTAL", "R$ 1.250,50", ""},
	}, money.Rows)
	assert.Equal(t, "1250.5", FinancialTotal(money).String())

	// the folder's own name decides; an events ancestor does not
	suppliers := section("Eventos/Coca-Cola/Fornecedores")
	assert.Equal(t, models.SectionList, suppliers.Type)
	list, ok := suppliers.List()
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "Buffet XYZ", list[0].Title)
	assert.Equal(t, "Contato: Ana", list[0].Description)

	notes := section("Notas/")
	list, ok = notes.List()
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Ideia", list[0].Title)
	assert.Equal(t, "Ativo: true • Nome Contato: Ana", list[0].Description)
	assert.Equal(t, []string{"vip"}, list[0].Tags)
}

// Scenario: "relatório do evento Coca-Cola"
func TestGenerate_EventReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "u1", []string{"Clientes", "Eventos Coca-Cola"}, "Lançamento", map[string]any{"data": "10/11", "local": "SP", "participantes": float64(150)})
	f.add(t, "u1", []string{"Clientes", "Eventos Coca-Cola"}, "Convenção", map[string]any{"data": "12/12", "participantes": "80"})

	res, err := f.service.Generate(ctx, "u1", &services.GenerateReportRequest{
		FolderRef: "Clientes/Eventos Coca-Cola",
		Title:     "Relatório Coca-Cola",
	})
	require.NoError(t, err)

	data := res.Data
	assert.Equal(t, "Relatório Coca-Cola", data.Title)
	assert.Equal(t, DefaultSubtitle, data.Subtitle)
	assert.Equal(t, 2, data.Metadata.TotalItems)
	assert.Equal(t, "Clientes/Eventos Coca-Cola", data.Metadata.FolderID)

	titles := []string{}
	for _, s := range data.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Resumo Executivo", "Análise: Eventos Coca-Cola", "Eventos Coca-Cola"}, titles)
	summary := string(data.Sections[0].Content.(models.TextContent))
	assert.Contains(t, summary, "somando 2 eventos registrados")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	require.NoError(t, err)
	assert.Equal(t, "Relatório Coca-Cola", doc.Find("h1").Text())
	assert.Equal(t, 2, doc.Find("table.modern-table tbody tr").Length())
	assert.Equal(t, 1, doc.Find(".analysis-block").Length())
}

func TestGenerate_DefaultsAndCards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "u1", []string{"Financeiro"}, "Som", map[string]any{"valor": "R$ 1.000,50"})
	f.add(t, "u1", []string{"Financeiro"}, "Luz", map[string]any{"valor": "250,00"})
	f.add(t, "u1", []string{"Aniversários"}, "Maria", map[string]any{"data": "01/02"})

	res, err := f.service.Generate(ctx, "u1", &services.GenerateReportRequest{IncludeCards: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, res.Data.Title)
	require.GreaterOrEqual(t, len(res.Data.Sections), 2)

	cardsSection := res.Data.Sections[1]
	assert.Equal(t, "Visão Geral", cardsSection.Title)
	cards := cardsSection.Content.(models.CardsContent)
	require.Len(t, cards, 4)
	assert.Equal(t, "3+", cards[0].Value)
	assert.Equal(t, "2", cards[1].Value)
	assert.Equal(t, "1", cards[2].Value)
	assert.Equal(t, "R$ 1.250,50", cards[3].Value)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find(".hero-card").Length())
	assert.Equal(t, 1, doc.Find("tr.total-row").Length())
}

func TestGeneratePDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "u1", []string{"Notas"}, "Ideia", "ligar para o buffet")

	pdf, err := f.service.GeneratePDF(ctx, "u1", &services.GenerateReportRequest{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	_, err = f.service.PDFFromHTML(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, "HTML é obrigatório", err.Error())
}
