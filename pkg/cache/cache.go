// Package cache stores verified solve results so repeated runs with the
// same configuration can skip the solve.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: a shared redis instance, used by the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so every backend addresses entries the
// same way.
package cache

import (
	"context"
	"time"
)

// TTLSolve is how long a solve result stays cached.
const TTLSolve = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SolveKeyOpts identifies a solve configuration.
type SolveKeyOpts struct {
	Rings       int `json:"rings"`
	Pegs        int `json:"pegs"`
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// Keyer builds cache keys.
type Keyer interface {
	SolveKey(opts SolveKeyOpts) string
}

// DefaultKeyer hashes the solve configuration into a "solve:" key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey generates a key for a solve result.
func (DefaultKeyer) SolveKey(opts SolveKeyOpts) string {
	return hashKey("solve", opts)
}
