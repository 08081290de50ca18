// Package cache stores rendered artifacts keyed by the network they came from.
//
// The CLI's render command hashes a network's serialized text and asks the
// cache for an artifact with the same hash and render options before
// invoking Graphviz again.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.ArtifactKey(cache.Hash(text), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // reuse data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
// A miss is reported as (nil, false, nil); errors are reserved for storage
// failures.
type Cache interface {
	// Get retrieves a value. The bool reports whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
