// Package cache defines the key-value contract the external verifier caches
// through, plus the canonical key format. Backends live in subpackages: an
// in-process map and a Postgres table shared between instances.
package cache

import (
	"context"
	"time"
)

// Entry is one cached value with its expiry deadline. Expiry is lazy:
// entries are discarded when a read finds them stale, never eagerly.
type Entry struct {
	Value     []byte
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at t.
func (e Entry) Expired(t time.Time) bool {
	return t.After(e.ExpiresAt)
}

// Store is a concurrency-safe key-value store. Get never fails the caller:
// a miss, a stale entry and a backend error all come back as (Entry{}, false).
// Concurrent writers to the same key may race; last write wins.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Put(ctx context.Context, key string, e Entry) error
}

// Key builds the canonical key for one check type against one target, e.g.
// "external:isitdownrightnow|https://example.com".
func Key(checkType, target string) string {
	return checkType + "|" + target
}
