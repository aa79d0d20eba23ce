package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in hosted deployments where different users need
// separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private conversations
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Unscoped keys for the CLI
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PositionsKey generates a prefixed key for panel positions.
func (k *ScopedKeyer) PositionsKey(conversation string) string {
	return k.prefix + k.inner.PositionsKey(conversation)
}

// SnapshotKey generates a prefixed key for board snapshots.
func (k *ScopedKeyer) SnapshotKey(conversation string) string {
	return k.prefix + k.inner.SnapshotKey(conversation)
}

// ArtifactKey generates a prefixed key for rendered exports.
func (k *ScopedKeyer) ArtifactKey(boardHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(boardHash, format)
}
