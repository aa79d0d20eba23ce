// Package store persists board edges.
//
// Edges are (conversation, source, target) triples with a style. The
// backend enforces uniqueness on the triple; a duplicate insert is
// treated as success, never an error, so optimistic UI retries and
// races between instances stay idempotent.
//
// Backends:
//   - memory: in-process, for the CLI and tests
//   - mongo: hosted deployments
package store

import (
	"context"
	"time"
)

// EdgeRecord is one persisted edge.
type EdgeRecord struct {
	Conversation string    `bson:"conversation" json:"conversation"`
	Source       string    `bson:"source" json:"source"`
	Target       string    `bson:"target" json:"target"`
	Style        string    `bson:"style" json:"style"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// EdgeStore is the interface for edge persistence backends.
type EdgeStore interface {
	// List returns all edges of a conversation. An unknown conversation
	// returns an empty slice.
	List(ctx context.Context, conversation string) ([]EdgeRecord, error)

	// Create inserts an edge. Inserting an existing
	// (conversation, source, target) triple succeeds without change.
	Create(ctx context.Context, rec EdgeRecord) error

	// Delete removes an edge. Deleting a missing edge succeeds.
	Delete(ctx context.Context, conversation, source, target string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
