// Package cache memoises rendered Chain-of-Custody artifacts.
//
// Rendering is deterministic: the same form, catalogue and render options
// always produce the same bytes. The pipeline therefore stores each artifact
// under a key derived from the content hashes of its inputs and serves
// repeated requests from the cache. Entries expire; the cache is never a
// document store.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for server deployments
//
// Keys are produced by a [Keyer] so that deployments can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default entry lifetimes.
const (
	TTLArtifact = 24 * time.Hour
	TTLPlan     = 24 * time.Hour
)

// Cache stores opaque byte values with an optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ArtifactKeyOpts lists the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	RowsPerPage int    `json:"rows_per_page,omitempty"`
	LogoHash    string `json:"logo_hash,omitempty"`
}

// Keyer derives cache keys from content hashes.
type Keyer interface {
	// PlanKey identifies the column plan of a form under a catalogue.
	PlanKey(formHash, catalogHash string) string
	// ArtifactKey identifies one rendered artifact.
	ArtifactKey(formHash, catalogHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey returns "plan:<hash>".
func (DefaultKeyer) PlanKey(formHash, catalogHash string) string {
	return hashKey("plan", formHash, catalogHash)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(formHash, catalogHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), formHash, catalogHash, opts)
}

var _ Keyer = DefaultKeyer{}
