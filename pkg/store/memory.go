package store

import (
	"context"
	"sync"
	"time"
)

type tripleKey struct {
	conversation string
	source       string
	target       string
}

// MemoryStore is an in-process EdgeStore.
type MemoryStore struct {
	mu    sync.Mutex
	edges map[tripleKey]EdgeRecord

	// FailNext makes the next store call return this error, then
	// clears itself. Tests use it to exercise rollback and recovery
	// paths.
	FailNext error
}

// NewMemoryStore creates an empty in-memory edge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{edges: make(map[tripleKey]EdgeRecord)}
}

func (m *MemoryStore) List(ctx context.Context, conversation string) ([]EdgeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	var out []EdgeRecord
	for k, rec := range m.edges {
		if k.conversation == conversation {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, rec EdgeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}

	key := tripleKey{rec.Conversation, rec.Source, rec.Target}
	if _, exists := m.edges[key]; exists {
		// Duplicate insert is success.
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.edges[key] = rec
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, conversation, source, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}

	delete(m.edges, tripleKey{conversation, source, target})
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

func (m *MemoryStore) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

var _ EdgeStore = (*MemoryStore)(nil)
