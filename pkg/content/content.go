// Package content abstracts the conversation content subsystem.
//
// The engine never inspects prompt or response payloads; it only needs
// the ordered turn list of a conversation and a signal when that list
// changes. A change notification carries no payload - subscribers
// re-pull the full ordered snapshot, there is no incremental merge.
package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tilegrid/boardflow/pkg/board"
)

// Provider supplies conversation turns and change notifications.
type Provider interface {
	// Turns returns the ordered turn snapshot for a conversation.
	// An unknown conversation returns an empty slice, not an error.
	Turns(ctx context.Context, conversation string) ([]board.Turn, error)

	// Subscribe registers a change callback for a conversation and
	// returns an unsubscribe function. The callback carries no data;
	// subscribers re-pull the snapshot.
	Subscribe(conversation string, fn func()) (unsubscribe func())
}

// MemoryProvider is an in-process Provider, used by the CLI, the debug
// server, and tests.
type MemoryProvider struct {
	mu    sync.RWMutex
	turns map[string][]board.Turn
	subs  map[string]map[int]func()
	next  int
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		turns: make(map[string][]board.Turn),
		subs:  make(map[string]map[int]func()),
	}
}

// Turns returns the conversation's turns ordered by creation time.
func (m *MemoryProvider) Turns(ctx context.Context, conversation string) ([]board.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.turns[conversation]
	out := make([]board.Turn, len(src))
	copy(out, src)
	return out, nil
}

// Subscribe registers a change callback.
func (m *MemoryProvider) Subscribe(conversation string, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[conversation] == nil {
		m.subs[conversation] = make(map[int]func())
	}
	id := m.next
	m.next++
	m.subs[conversation][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[conversation], id)
	}
}

// SetTurns replaces a conversation's turns and notifies subscribers.
// Turns are re-sorted by creation time, then id.
func (m *MemoryProvider) SetTurns(conversation string, turns []board.Turn) {
	cp := make([]board.Turn, len(turns))
	copy(cp, turns)
	sort.Slice(cp, func(i, j int) bool {
		if !cp[i].CreatedAt.Equal(cp[j].CreatedAt) {
			return cp[i].CreatedAt.Before(cp[j].CreatedAt)
		}
		return cp[i].ID < cp[j].ID
	})

	m.mu.Lock()
	m.turns[conversation] = cp
	m.mu.Unlock()

	m.notify(conversation)
}

// Append adds one turn to a conversation and notifies subscribers.
// A zero CreatedAt is stamped with the current time.
func (m *MemoryProvider) Append(conversation string, turn board.Turn) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	m.mu.Lock()
	m.turns[conversation] = append(m.turns[conversation], turn)
	m.mu.Unlock()

	m.notify(conversation)
}

// SetCollapsed updates a turn's collapsed metadata and notifies
// subscribers. Unknown turns are ignored.
func (m *MemoryProvider) SetCollapsed(conversation, turnID string, collapsed bool) {
	m.mu.Lock()
	changed := false
	for i := range m.turns[conversation] {
		if m.turns[conversation][i].ID == turnID {
			m.turns[conversation][i].Collapsed = collapsed
			changed = true
			break
		}
	}
	m.mu.Unlock()

	if changed {
		m.notify(conversation)
	}
}

func (m *MemoryProvider) notify(conversation string) {
	m.mu.RLock()
	fns := make([]func(), 0, len(m.subs[conversation]))
	for _, fn := range m.subs[conversation] {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

var _ Provider = (*MemoryProvider)(nil)
