package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

type testDB struct {
	folders       repositories.FolderRepository
	items         repositories.ItemRepository
	conversations repositories.ConversationRepository
	tx            repositories.TransactionManager
}

// newTestDB creates a throwaway set of prefixed tables and drops them on cleanup
func newTestDB(t *testing.T) *testDB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pool, err := CreateConnectionPool(ctx, url)
	require.NoError(t, err)

	tables := NewTableNames("it_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "") + "_")
	require.NoError(t, EnsureSchema(ctx, pool, tables, logger))
	t.Cleanup(func() {
		_, err := DropAll(context.Background(), pool, tables)
		assert.NoError(t, err)
		pool.Close()
	})

	cfg := &RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	return &testDB{
		folders:       NewFolderRepository(cfg),
		items:         NewItemRepository(cfg),
		conversations: NewConversationRepository(cfg),
		tx:            NewTransactionManager(pool, logger),
	}
}

func folder(userID string, parentID *string, name string) *models.Folder {
	return &models.Folder{
		UserID:   userID,
		ParentID: parentID,
		Name:     name,
		Icon:     models.DefaultFolderIcon,
		Color:    models.DefaultFolderColor,
	}
}

func TestFolderRepository_SiblingNamesAreCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	root := folder("u1", nil, "Eventos")
	require.NoError(t, db.folders.Create(ctx, root))

	tests := []struct {
		name     string
		folder   *models.Folder
		conflict bool
	}{
		{"same root name in other case", folder("u1", nil, "EVENTOS"), true},
		{"same name for another user", folder("u2", nil, "Eventos"), false},
		{"same name under a parent", folder("u1", &root.ID, "Eventos"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.folders.Create(ctx, tt.folder)
			if !tt.conflict {
				require.NoError(t, err)
				return
			}
			var conflict *domain.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, root.ID, conflict.ResourceID)
		})
	}

	found, err := db.folders.FindChildByName(ctx, "u1", nil, "eventos")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, root.ID, found.ID)
}

func TestFolderRepository_CreateIfNotExistsConverges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]struct{}{}
		created int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Compras"
			if i%2 == 1 {
				name = "compras"
			}
			got, isNew, err := db.folders.CreateIfNotExists(ctx, folder("u1", nil, name))
			assert.NoError(t, err)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[got.ID] = struct{}{}
			if isNew {
				created++
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)

	roots, err := db.folders.ListChildren(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestFolderRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	root := folder("u1", nil, "Eventos")
	require.NoError(t, db.folders.Create(ctx, root))
	child := folder("u1", &root.ID, "Coca-Cola")
	require.NoError(t, db.folders.Create(ctx, child))

	item := &models.FolderItem{
		FolderID: child.ID,
		UserID:   "u1",
		Title:    "Lançamento",
		Content:  models.Content{"data": "10/11", "participantes": float64(150)},
		Tags:     []string{"vip"},
	}
	require.NoError(t, db.items.Create(ctx, item))

	stored, err := db.items.GetByID(ctx, item.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "10/11", stored.Content["data"])
	assert.Equal(t, []string{"vip"}, stored.Tags)

	assert.ErrorIs(t, db.folders.Delete(ctx, root.ID, "u2"), domain.ErrNotFound)
	require.NoError(t, db.folders.Delete(ctx, root.ID, "u1"))

	_, err = db.folders.GetByID(ctx, child.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = db.items.GetByID(ctx, item.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	orphan := &models.FolderItem{FolderID: child.ID, UserID: "u1", Title: "Tarde demais"}
	assert.ErrorIs(t, db.items.Create(ctx, orphan), domain.ErrNotFound)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := db.folders.Create(ctx, folder("u1", nil, "Rascunho")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := db.folders.FindChildByName(ctx, "u1", nil, "Rascunho")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConversationRepository_MessagesAndCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	conv := &models.Conversation{UserID: "u1", Title: "Festa da Ana"}
	require.NoError(t, db.conversations.Create(ctx, conv))
	for _, content := range []string{"um", "dois", "três"} {
		require.NoError(t, db.conversations.AddMessage(ctx, &models.Message{
			ConversationID: conv.ID,
			Role:           models.RoleUser,
			Content:        content,
		}))
	}

	recent, err := db.conversations.RecentMessages(ctx, conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "dois", recent[0].Content)
	assert.Equal(t, "três", recent[1].Content)

	_, err = db.conversations.GetByID(ctx, conv.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, db.conversations.Delete(ctx, conv.ID, "u1"))
	recent, err = db.conversations.RecentMessages(ctx, conv.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
