package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/repository/memory"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []services.WorkspaceChange
}

func (n *recordingNotifier) WorkspaceChanged(_ context.Context, c services.WorkspaceChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := []string{}
	for _, c := range n.changes {
		out = append(out, c.Action)
	}
	return out
}

type fixture struct {
	store    *Store
	resolver *PathResolver
	notifier *recordingNotifier
	mem      *memory.Store
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := memory.NewStore()
	resolver := NewPathResolver(mem.Folders(), mem.TxManager(), logger)
	notifier := &recordingNotifier{}
	return &fixture{
		store:    NewStore(mem.Folders(), mem.Items(), resolver, mem.TxManager(), notifier, logger),
		resolver: resolver,
		notifier: notifier,
		mem:      mem,
	}
}

func strPtr(s string) *string { return &s }

func TestResolvePath_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.resolver.ResolvePath(ctx, "u1", []string{"Clientes", "Maria", "Aniversário"}, "", "")
	require.NoError(t, err)

	second, err := f.resolver.ResolvePath(ctx, "u1", []string{" clientes ", "", "MARIA", "Aniversário"}, "🎉", "#8B5CF6")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := f.mem.Folders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, folder := range all {
		assert.Equal(t, models.DefaultFolderIcon, folder.Icon, "hints apply only to created folders")
	}
}

func TestResolvePath_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			folder, err := f.resolver.ResolvePath(ctx, "u1", []string{"Eventos", "Coca-Cola"}, "", "")
			if assert.NoError(t, err) {
				ids[i] = folder.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	all, err := f.mem.Folders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolvePath_Invalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name     string
		segments []string
	}{
		{"nil", nil},
		{"blank segments", []string{" ", ""}},
		{"segment too long", []string{strings.Repeat("a", 256)}},
		{"too deep", strings.Split("a/b/c/d/e/f/g/h/i/j/k", "/")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.ResolvePath(ctx, "u1", tt.segments, "", "")
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}

	_, err := f.resolver.ResolvePath(ctx, "u1", nil, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestLookupPath_DoesNotCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.resolver.LookupPath(ctx, "u1", []string{"Eventos"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := f.mem.Folders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddItem_ContentCoercion(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name    string
		content any
		want    models.Content
	}{
		{"nil", nil, models.Content{}},
		{"object", map[string]any{"valor": 10.0}, models.Content{"valor": 10.0}},
		{"string", "comprar balões", models.Content{"descricao": "comprar balões"}},
		{"number", 42.0, models.Content{"descricao": "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Notas"), &AddItemRequest{
				Title:   "item " + tt.name,
				Content: tt.content,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Item.Content)
		})
	}
}

func TestAddItem_Targets(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	compra := "compra"

	byName, err := f.store.AddItem(ctx, "u1", services.FolderByLegacyName("Compras"), &AddItemRequest{
		Title: "Balões", ItemType: &compra, Tags: []string{" festa ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Compras", byName.Folder.Name)
	assert.Nil(t, byName.Folder.ParentID)
	assert.Equal(t, "🛒", byName.Folder.Icon)
	assert.Equal(t, "#10B981", byName.Folder.Color)
	assert.Equal(t, []string{"festa"}, byName.Item.Tags)
	require.NotNil(t, byName.Item.Folder)
	assert.Equal(t, byName.Folder.ID, byName.Item.Folder.ID)

	byID, err := f.store.AddItem(ctx, "u1", services.FolderByID(byName.Folder.ID), &AddItemRequest{Title: "Velas"})
	require.NoError(t, err)
	assert.Equal(t, byName.Folder.ID, byID.Folder.ID)

	byPath, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Clientes", "Maria"), &AddItemRequest{Title: "Contato"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", byPath.Folder.Name)
	assert.Equal(t, []string{"Clientes", "Maria"}, byPath.Path)

	_, err = f.store.AddItem(ctx, "u2", services.FolderByID(byName.Folder.ID), &AddItemRequest{Title: "Intruso"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.store.AddItem(ctx, "u1", services.FolderTarget{}, &AddItemRequest{Title: "Sem destino"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.store.AddItem(ctx, "u1", services.FolderByLegacyName("Compras"), &AddItemRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidationMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	manyTags := make([]string, 21)
	for i := range manyTags {
		manyTags[i] = fmt.Sprintf("tag%d", i)
	}

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"blank folder name", func() error {
			_, err := f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: " "})
			return err
		}, "Nome da pasta é obrigatório"},
		{"long folder name", func() error {
			_, err := f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: strings.Repeat("a", 256)})
			return err
		}, "Nome da pasta deve ter no máximo 255 caracteres"},
		{"blank name and long icon", func() error {
			_, err := f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "", Icon: strings.Repeat("x", 17)})
			return err
		}, "Ícone deve ter no máximo 16 caracteres; Nome da pasta é obrigatório"},
		{"blank item title", func() error {
			_, err := f.store.AddItem(ctx, "u1", services.FolderByLegacyName("Compras"), &AddItemRequest{Title: ""})
			return err
		}, "Título do item é obrigatório"},
		{"too many tags", func() error {
			_, err := f.store.AddItem(ctx, "u1", services.FolderByLegacyName("Compras"), &AddItemRequest{Title: "Bolo", Tags: manyTags})
			return err
		}, "Máximo de 20 tags por item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Eventos"), &AddItemRequest{Title: "Festa"})
	require.NoError(t, err)

	_, err = f.store.GetFolder(ctx, "u2", res.Folder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.GetItem(ctx, "u2", res.Item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.DeleteFolder(ctx, "u2", res.Folder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.DeleteItem(ctx, "u2", res.Item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	summaries, err := f.store.ListFolders(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	found, err := f.store.SearchItems(ctx, "u2", &SearchRequest{Query: "festa"})
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.store.CreateFolder(ctx, "u2", &CreateFolderRequest{Name: "Filho", ParentID: &res.Folder.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFolder_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, path := range [][]string{{"Clientes", "Maria"}, {"Clientes", "Maria", "Festa"}, {"Clientes", "João"}} {
		_, err := f.store.AddItem(ctx, "u1", services.FolderByPath(path...), &AddItemRequest{Title: strings.Join(path, "/")})
		require.NoError(t, err)
	}
	keep, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Outros"), &AddItemRequest{Title: "fica"})
	require.NoError(t, err)

	root, err := f.resolver.LookupPath(ctx, "u1", []string{"Clientes"})
	require.NoError(t, err)

	deleted, err := f.store.DeleteFolder(ctx, "u1", root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clientes", deleted.Name)

	summaries, err := f.store.ListFolders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, keep.Folder.ID, summaries[0].ID)

	items, err := f.store.SearchItems(ctx, "u1", &SearchRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fica", items[0].Title)

	assert.Contains(t, f.notifier.actions(), services.ChangeFolderDeleted)
}

func TestSearchItems_Filters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	add := func(path []string, title string, content any, tags ...string) {
		_, err := f.store.AddItem(ctx, "u1", services.FolderByPath(path...), &AddItemRequest{Title: title, Content: content, Tags: tags})
		require.NoError(t, err)
	}
	add([]string{"Eventos"}, "Aniversário da Ana", map[string]any{"local": "São Paulo"}, "festa")
	add([]string{"Eventos", "Coca-Cola"}, "Convenção", map[string]any{"participantes": 300.0}, "corporativo")
	add([]string{"Compras"}, "Bolo", map[string]any{"fornecedor": "Doceria Ana"}, "festa", "comida")

	eventos := services.FolderByPath("Eventos")
	missing := services.FolderByPath("Nada")
	legacy := services.FolderByLegacyName("compras")

	tests := []struct {
		name string
		req  SearchRequest
		want []string
	}{
		{"everything newest first", SearchRequest{}, []string{"Bolo", "Convenção", "Aniversário da Ana"}},
		{"query matches title", SearchRequest{Query: "BOLO"}, []string{"Bolo"}},
		{"query matches content accent-insensitive", SearchRequest{Query: "sao paulo"}, []string{"Aniversário da Ana"}},
		{"query matches title or content", SearchRequest{Query: "ana"}, []string{"Bolo", "Aniversário da Ana"}},
		{"folder filter is exact", SearchRequest{Folder: &eventos}, []string{"Aniversário da Ana"}},
		{"unresolved folder is empty", SearchRequest{Folder: &missing}, []string{}},
		{"legacy name lookup", SearchRequest{Folder: &legacy}, []string{"Bolo"}},
		{"tags any-match", SearchRequest{Tags: []string{"corporativo", "comida"}}, []string{"Bolo", "Convenção"}},
		{"tags and query", SearchRequest{Tags: []string{"festa"}, Query: "aniversario"}, []string{"Aniversário da Ana"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := f.store.SearchItems(ctx, "u1", &tt.req)
			require.NoError(t, err)
			titles := []string{}
			for _, it := range items {
				titles = append(titles, it.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	// lookups never create folders
	all, err := f.mem.Folders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListFoldersAndTree(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Eventos", "Coca-Cola"), &AddItemRequest{Title: "Convenção"})
	require.NoError(t, err)
	_, err = f.store.AddItem(ctx, "u1", services.FolderByPath("Eventos", "Pepsi"), &AddItemRequest{Title: "Lançamento"})
	require.NoError(t, err)
	_, err = f.store.AddItem(ctx, "u1", services.FolderByPath("Eventos", "Pepsi"), &AddItemRequest{Title: "Coquetel"})
	require.NoError(t, err)

	summaries, err := f.store.ListFolders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Pepsi", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].ItemCount)
	assert.Equal(t, "Eventos", summaries[2].Name)
	require.Len(t, summaries[2].SubFolders, 2)
	assert.Equal(t, "Coca-Cola", summaries[2].SubFolders[0].Name)
	assert.Equal(t, 0, summaries[2].ItemCount)

	tree, err := f.store.Tree(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Folders, 2)
	assert.Equal(t, "Pepsi", tree[0].Folders[1].Name)
	assert.Equal(t, 2, tree[0].Folders[1].ItemCount)
}

func TestCreateFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	folder, err := f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "  Fornecedores  "})
	require.NoError(t, err)
	assert.Equal(t, "Fornecedores", folder.Name)
	assert.Equal(t, models.DefaultFolderIcon, folder.Icon)

	_, err = f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Fornecedores"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, folder.ID, conflict.ResourceID)

	child, err := f.store.CreateFolder(ctx, "u1", &CreateFolderRequest{Name: "Buffet", ParentID: &folder.ID, Icon: "🍽️"})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, *child.ParentID)
	assert.Equal(t, "🍽️", child.Icon)

	assert.Equal(t, []string{services.ChangeFolderCreated, services.ChangeFolderCreated}, f.notifier.actions())
}

func TestListItems_TypeAndQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, it := range []struct{ title, typ string }{{"Bolo", "compra"}, {"Festa", "evento"}, {"Docinhos", "compra"}} {
		_, err := f.store.AddItem(ctx, "u1", services.FolderByPath("Geral"), &AddItemRequest{Title: it.title, ItemType: strPtr(it.typ)})
		require.NoError(t, err)
	}

	items, err := f.store.ListItems(ctx, "u1", &ListItemsRequest{ItemType: strPtr("compra"), Query: "doc"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Docinhos", items[0].Title)
}
