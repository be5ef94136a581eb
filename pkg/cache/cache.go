package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Store is the backend contract for the result cache: raw bytes with TTL.
// Entries are replaced whole on write and expiry is enforced at read time,
// so a reader observes either the previous entry or the new one in full.
type Store interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Keys lists live (unexpired) keys matching a glob pattern.
	// An empty pattern matches everything.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// DeleteByPattern removes all keys matching a glob pattern.
	// An empty pattern removes everything.
	DeleteByPattern(ctx context.Context, pattern string) error

	Close() error
}
