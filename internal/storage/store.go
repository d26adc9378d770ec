// Package storage holds the backends behind the query cache.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a byte-valued key store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
