package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eventdesk/internal/domain/services"
)

// ResponseCache stores response bodies keyed by (user, route). Store failures are
// logged and treated as misses.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

var _ services.ChangeNotifier = (*ResponseCache)(nil)

// NewResponseCache creates a cache whose entries live for ttl
func NewResponseCache(store Store, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl, logger: logger, generations: make(map[string]uint64)}
}

// Key builds the cache key for one user and request URI
func Key(userID, route string) string {
	return userPrefix(userID) + route
}

func userPrefix(userID string) string {
	return "cache:" + userID + ":"
}

func userOf(key string) string {
	userID, _, _ := strings.Cut(strings.TrimPrefix(key, "cache:"), ":")
	return userID
}

func (c *ResponseCache) generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

// Get returns a cached body
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	return body, ok
}

// Set stores a body for the configured ttl
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.store.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Fill returns the cached body for key or runs load once for all concurrent
// callers with the same key. hit is true when the body came from the store.
// Bodies for which load reports store=false are returned but not cached, and so
// are bodies whose user was invalidated while load ran.
func (c *ResponseCache) Fill(ctx context.Context, key string, load func() (body []byte, store bool)) (body []byte, hit bool) {
	if body, ok := c.Get(ctx, key); ok {
		return body, true
	}

	type loaded struct {
		body  []byte
		store bool
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		userID := userOf(key)
		gen := c.generation(userID)
		body, store := load()
		if store && c.generation(userID) == gen {
			c.Set(ctx, key, body)
		}
		return loaded{body: body, store: store}, nil
	})
	return v.(loaded).body, false
}

// InvalidateUser drops every cached response of userID
func (c *ResponseCache) InvalidateUser(ctx context.Context, userID string) {
	c.mu.Lock()
	c.generations[userID]++
	c.mu.Unlock()

	if err := c.store.DeletePrefix(ctx, userPrefix(userID)); err != nil {
		c.logger.Warn("cache invalidation failed", "user_id", userID, "error", err)
		return
	}
	c.logger.Debug("cache invalidated", "user_id", userID)
}

// WorkspaceChanged invalidates the user's entries after any workspace mutation
func (c *ResponseCache) WorkspaceChanged(ctx context.Context, change services.WorkspaceChange) {
	c.InvalidateUser(ctx, change.UserID)
}
