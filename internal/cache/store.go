// Package cache keeps rendered GET responses per user and drops them when the
// user's workspace or conversations change.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with expiry
type Store interface {
	// Get returns the value and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}
