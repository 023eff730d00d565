package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/service/workspace"
	"eventdesk/internal/textutil"
)

const (
	emptyFolderNote = `<p style="color: #94a3b8; font-style: italic;">Nenhum item registrado nesta pasta até o momento.</p>`
	titleSeparator  = " > "
	workspaceTitle  = "Workspace"
	missingCell     = "-"
	defaultStatus   = "Pendente"
)

var (
	eventHeaders     = []string{"Evento", "Data", "Local", "Participantes"}
	financialHeaders = []string{"Item", "Fornecedor/Responsável", "Valor", "Status"}

	eventDateKeys      = []string{"data", "dataRealizacao", "dataRealização"}
	eventPlaceKeys     = []string{"local", "cidade", "região", "regiao"}
	eventAudienceKeys  = []string{"participantes", "numeroParticipantes", "númeroParticipantes"}
	financialValueKeys = []string{"valor", "preco", "preço", "total"}
	financialPartyKeys = []string{"fornecedor", "responsavel", "responsável"}
	financialStateKeys = []string{"status", "situacao", "situação"}
)

// Aggregate is the raw material of a report before narration
type Aggregate struct {
	Sections   []models.ReportSection
	TotalItems int
}

// Aggregator turns a slice of the workspace into report sections
type Aggregator struct {
	folderRepo repositories.FolderRepository
	itemRepo   repositories.ItemRepository
	resolver   services.PathResolver
	logger     *slog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(
	folderRepo repositories.FolderRepository,
	itemRepo repositories.ItemRepository,
	resolver services.PathResolver,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		folderRepo: folderRepo,
		itemRepo:   itemRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// Aggregate collects sections for scope. An empty scope covers the whole workspace,
// a scope containing "/" is a folder path, anything else is a folder id. Scopes that
// do not resolve produce an empty aggregate, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, userID, scope string) (*Aggregate, error) {
	scope = strings.TrimSpace(scope)
	out := &Aggregate{Sections: []models.ReportSection{}}

	if scope == "" {
		roots, err := a.folderRepo.ListChildren(ctx, userID, nil)
		if err != nil {
			return nil, domain.WrapPersistence("Falha ao listar pastas", err)
		}
		// newest root first
		for i := len(roots) - 1; i >= 0; i-- {
			if err := a.walk(ctx, out, &roots[i], ""); err != nil {
				return nil, err
			}
		}
		if len(out.Sections) == 0 && len(roots) > 0 {
			out.Sections = append(out.Sections, models.NewSection(workspaceTitle, models.TextContent(emptyFolderNote)))
		}
		return out, nil
	}

	var (
		folder *models.Folder
		err    error
	)
	if strings.Contains(scope, "/") {
		folder, err = a.resolver.LookupPath(ctx, userID, workspace.SplitPath(scope))
	} else {
		folder, err = a.folderRepo.GetByID(ctx, scope, userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			a.logger.Warn("report scope not found", "scope", scope, "user_id", userID)
			return out, nil
		}
		return nil, domain.WrapPersistence("Falha ao buscar pasta", err)
	}

	if err := a.addFolder(ctx, out, folder, "", true); err != nil {
		return nil, err
	}
	children, err := a.folderRepo.ListChildren(ctx, userID, &folder.ID)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao listar pastas", err)
	}
	for i := range children {
		if err := a.addFolder(ctx, out, &children[i], folder.Name, true); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// walk adds folder and every descendant, skipping folders without items
func (a *Aggregator) walk(ctx context.Context, out *Aggregate, folder *models.Folder, prefix string) error {
	if err := a.addFolder(ctx, out, folder, prefix, false); err != nil {
		return err
	}
	children, err := a.folderRepo.ListChildren(ctx, folder.UserID, &folder.ID)
	if err != nil {
		return domain.WrapPersistence("Falha ao listar pastas", err)
	}
	for i := range children {
		if err := a.walk(ctx, out, &children[i], joinTitle(prefix, folder.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Aggregator) addFolder(ctx context.Context, out *Aggregate, folder *models.Folder, prefix string, keepEmpty bool) error {
	items, err := a.itemRepo.ListByFolder(ctx, folder.ID, folder.UserID)
	if err != nil {
		return domain.WrapPersistence("Falha ao buscar items", err)
	}
	if len(items) == 0 && !keepEmpty {
		return nil
	}
	out.Sections = append(out.Sections, FolderSection(joinTitle(prefix, folder.Name), folder.Name, items))
	out.TotalItems += len(items)
	return nil
}

func joinTitle(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + titleSeparator + name
}

// FolderSection formats items by the category the folder's own name suggests
func FolderSection(title, folderName string, items []models.FolderItem) models.ReportSection {
	switch {
	case len(items) == 0:
		return models.NewSection(title, models.TextContent(emptyFolderNote))
	case textutil.ContainsAny(folderName, "evento", "aniversario"):
		return models.NewSection(title, eventsTable(items))
	case textutil.ContainsAny(folderName, "financeiro", "pagamento"):
		return models.NewSection(title, financialTable(items))
	}
	return models.NewSection(title, itemList(items))
}

func eventsTable(items []models.FolderItem) models.TableContent {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Title,
			item.Content.TextOr(missingCell, eventDateKeys...),
			item.Content.TextOr(missingCell, eventPlaceKeys...),
			item.Content.TextOr(missingCell, eventAudienceKeys...),
		})
	}
	return models.TableContent{Kind: models.TableEvents, Headers: eventHeaders, Rows: rows}
}

func financialTable(items []models.FolderItem) models.TableContent {
	rows := make([][]string, 0, len(items)+1)
	total := decimal.Zero
	for _, item := range items {
		value, _ := item.Content.First(financialValueKeys...)
		amount := ParseBRL(value)
		total = total.Add(amount)
		rows = append(rows, []string{
			item.Title,
			item.Content.TextOr(missingCell, financialPartyKeys...),
			FormatBRL(amount),
			item.Content.TextOr(defaultStatus, financialStateKeys...),
		})
	}
	rows = append(rows, []string{"", "TOTAL", FormatBRL(total), ""})
	return models.TableContent{Kind: models.TableFinancial, Headers: financialHeaders, Rows: rows}
}

// FinancialTotal sums the value column of a financial table, ignoring the total row
func FinancialTotal(t models.TableContent) decimal.Decimal {
	total := decimal.Zero
	for _, row := range t.Rows {
		if len(row) < 3 || isTotalRow(row) {
			continue
		}
		total = total.Add(ParseBRL(row[2]))
	}
	return total
}

func isTotalRow(row []string) bool {
	return len(row) > 0 && row[0] == ""
}

func itemList(items []models.FolderItem) models.ListContent {
	list := make(models.ListContent, 0, len(items))
	for _, item := range items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		list = append(list, models.ListEntry{
			Title:       item.Title,
			Description: describe(item.Content),
			Tags:        tags,
		})
	}
	return list
}

// describe renders content as "Label: value • Label: value" in key order
func describe(c models.Content) string {
	parts := make([]string, 0, len(c))
	for _, key := range c.SortedKeys() {
		v := c[key]
		if blank(v) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", textutil.Label(key), models.FormatValue(v)))
	}
	return strings.Join(parts, " • ")
}

func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	}
	return false
}
