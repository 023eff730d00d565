// Package memory is an in-process implementation of the repository interfaces.
// It backs tests and single-node dev runs without DATABASE_URL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

// Store holds all tables behind one lock
type Store struct {
	mu sync.RWMutex

	users         map[string]models.User
	folders       map[string]models.Folder
	items         map[string]models.FolderItem
	conversations map[string]models.Conversation
	messages      map[string][]models.Message // by conversation ID, chronological

	last time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:         make(map[string]models.User),
		folders:       make(map[string]models.Folder),
		items:         make(map[string]models.FolderItem),
		conversations: make(map[string]models.Conversation),
		messages:      make(map[string][]models.Message),
	}
}

// Folders returns a FolderRepository view
func (s *Store) Folders() repositories.FolderRepository { return &folderRepo{s} }

// Items returns an ItemRepository view
func (s *Store) Items() repositories.ItemRepository { return &itemRepo{s} }

// Conversations returns a ConversationRepository view
func (s *Store) Conversations() repositories.ConversationRepository { return &conversationRepo{s} }

// Users returns a UserRepository view
func (s *Store) Users() repositories.UserRepository { return &userRepo{s} }

// TxManager returns a TransactionManager. Writes apply immediately; there is no rollback.
func (s *Store) TxManager() repositories.TransactionManager { return txManager{} }

// now returns strictly increasing timestamps so ordering by creation time is stable.
// Caller must hold the write lock.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func newID() string {
	return uuid.NewString()
}

type txManager struct{}

func (txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
