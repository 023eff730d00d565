// Package events announces committed workspace mutations to other processes.
package events

import (
	"context"
	"log/slog"
	"time"

	"eventdesk/internal/domain/services"
)

// WorkspaceEvent is the message body published for each mutation
type WorkspaceEvent struct {
	Action   string    `json:"action"`
	UserID   string    `json:"userId"`
	FolderID string    `json:"folderId,omitempty"`
	ItemID   string    `json:"itemId,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher delivers one event
type Publisher interface {
	Publish(ctx context.Context, event WorkspaceEvent) error
}

// Notifier adapts a Publisher to services.ChangeNotifier. Publish failures are
// logged and never reach the caller.
type Notifier struct {
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

var _ services.ChangeNotifier = (*Notifier)(nil)

// NewNotifier wraps publisher
func NewNotifier(publisher Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger, now: time.Now}
}

func (n *Notifier) WorkspaceChanged(ctx context.Context, change services.WorkspaceChange) {
	event := WorkspaceEvent{
		Action:   change.Action,
		UserID:   change.UserID,
		FolderID: change.FolderID,
		ItemID:   change.ItemID,
		At:       n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("workspace event not published",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
}

// Fanout forwards every change to each notifier in order
type Fanout []services.ChangeNotifier

func (f Fanout) WorkspaceChanged(ctx context.Context, change services.WorkspaceChange) {
	for _, n := range f {
		if n != nil {
			n.WorkspaceChanged(ctx, change)
		}
	}
}

// Noop discards events
type Noop struct{}

func (Noop) Publish(context.Context, WorkspaceEvent) error { return nil }
