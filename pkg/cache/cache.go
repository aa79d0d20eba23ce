// Package cache provides pluggable caching for board layout state.
//
// The primary consumer is the layout engine, which persists canvas
// panel positions per conversation so a board reopens where the user
// left it. Backends:
//   - file: directory of JSON entries, for the CLI
//   - redis: shared cache for hosted deployments
//   - null: disabled caching
//
// Keys are built through the Keyer interface so hosted deployments can
// scope entries per user without the engine knowing about tenancy.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss;
	// misses are not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	// PositionsTTL bounds how long cached panel positions survive
	// without the conversation being opened.
	PositionsTTL = 30 * 24 * time.Hour

	// SnapshotTTL applies to cached board snapshots served by the
	// debug server.
	SnapshotTTL = 5 * time.Minute

	// ArtifactTTL applies to rendered exports keyed by content hash.
	// Content-addressed, so effectively immutable.
	ArtifactTTL = 0
)

// Keyer generates cache keys for the entry kinds the engine stores.
type Keyer interface {
	// PositionsKey keys the canvas panel-position map of a conversation.
	PositionsKey(conversation string) string

	// SnapshotKey keys a serialized board snapshot.
	SnapshotKey(conversation string) string

	// ArtifactKey keys a rendered export by board content hash and format.
	ArtifactKey(boardHash, format string) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer with no scoping prefix.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PositionsKey generates a key for a conversation's panel positions.
func (k *DefaultKeyer) PositionsKey(conversation string) string {
	return hashKey("positions", conversation)
}

// SnapshotKey generates a key for a conversation's board snapshot.
func (k *DefaultKeyer) SnapshotKey(conversation string) string {
	return hashKey("snapshot", conversation)
}

// ArtifactKey generates a key for a rendered export.
func (k *DefaultKeyer) ArtifactKey(boardHash, format string) string {
	return hashKey("artifact", boardHash, format)
}

var _ Keyer = (*DefaultKeyer)(nil)
