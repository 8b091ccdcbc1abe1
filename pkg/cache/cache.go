// Package cache stores computed artifacts, label placements in particular,
// so repeated renders of an unchanged map can skip the placement search.
//
// A Cache is a plain byte store with expiry. Keys are produced by a Keyer so
// that callers never build key strings by hand:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().PlacementKey(fingerprint, quality)
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLPlacement is how long a cached placement stays fresh.
const TTLPlacement = 30 * 24 * time.Hour

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored data and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// PlacementKey is the key of a label placement computed from inputs
	// with the given fingerprint at the given quality.
	PlacementKey(fingerprint string, quality int) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey implements Keyer.
func (DefaultKeyer) PlacementKey(fingerprint string, quality int) string {
	return hashKey("placement", fingerprint, quality)
}
