// Package seed fills a user's workspace with a demo event-planning dataset.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"eventdesk/internal/domain/services"
)

type demoItem struct {
	path     []string
	title    string
	itemType string
	content  map[string]any
	tags     []string
}

func strPtr(s string) *string { return &s }

var demoItems = []demoItem{
	{
		path: []string{"Eventos"}, title: "Feira de fornecedores", itemType: "evento",
		content: map[string]any{"data": "10/02/2026", "local": "Centro de Convenções", "participantes": 120},
	},
	{
		path: []string{"Eventos", "Coca-Cola"}, title: "Lançamento de verão", itemType: "evento",
		content: map[string]any{"data": "15/01/2026", "local": "São Paulo - Expo Center Norte", "convidados": 300, "status": "confirmado"},
		tags:    []string{"cliente", "lançamento"},
	},
	{
		path: []string{"Eventos", "Coca-Cola"}, title: "Reunião de briefing", itemType: "evento",
		content: map[string]any{"data": "02/12/2025", "local": "Escritório do cliente", "status": "pendente"},
	},
	{
		path: []string{"Eventos", "Festa da Ana"}, title: "Aniversário de 30 anos", itemType: "evento",
		content: map[string]any{"data": "20/03/2026", "local": "Salão Jardim", "convidados": 80},
	},
	{
		path: []string{"Compras"}, title: "Balões metalizados", itemType: "compra",
		content: map[string]any{"quantidade": 50, "valor": "R$ 250,00", "fornecedor": "Festa & Cia", "status": "pago"},
	},
	{
		path: []string{"Compras"}, title: "Toalhas de mesa", itemType: "compra",
		content: map[string]any{"quantidade": 20, "valor": "R$ 1.000,50", "status": "pendente"},
	},
	{
		path: []string{"Fornecedores"}, title: "Buffet Sabor & Arte", itemType: "fornecedor",
		content: map[string]any{"contato": "Marina", "telefone": "(11) 99999-0000", "email": "contato@saborearte.com.br"},
		tags:    []string{"buffet"},
	},
	{
		path: []string{"Tarefas"}, title: "Confirmar DJ", itemType: "tarefa",
		content: map[string]any{"prazo": "10/01/2026", "responsavel": "Carlos", "status": "pendente"},
	},
	{
		path: []string{"Financeiro"}, title: "Sinal do buffet", itemType: "pagamento",
		content: map[string]any{"valor": "R$ 3.500,00", "vencimento": "05/12/2025", "status": "pago"},
	},
}

// Result counts what Seed created
type Result struct {
	Items   int
	Skipped bool
}

// Seeder writes demo data through the workspace service
type Seeder struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(workspace services.WorkspaceService, logger *slog.Logger) *Seeder {
	return &Seeder{workspace: workspace, logger: logger}
}

// Seed adds the demo items for userID. A workspace that already has folders is left
// alone unless force is set.
func (s *Seeder) Seed(ctx context.Context, userID string, force bool) (*Result, error) {
	existing, err := s.workspace.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !force {
		s.logger.Info("workspace not empty, skipping seed", "user_id", userID, "folders", len(existing))
		return &Result{Skipped: true}, nil
	}

	res := &Result{}
	for _, it := range demoItems {
		_, err := s.workspace.AddItem(ctx, userID, services.FolderByPath(it.path...), &services.AddItemRequest{
			Title:    it.title,
			Content:  it.content,
			ItemType: strPtr(it.itemType),
			Tags:     it.tags,
		})
		if err != nil {
			return res, fmt.Errorf("seed %q: %w", it.title, err)
		}
		res.Items++
	}

	s.logger.Info("workspace seeded", "user_id", userID, "items", res.Items)
	return res, nil
}
