// Package session tracks per-conversation board sessions.
//
// A session is the UI-side state of one open conversation board: layout
// mode, viewport, selection and hover, and the scroll sub-mode. It is
// what survives a board being closed and reopened, and what the CLI
// viewer restores between invocations.
//
// Storage is behind the Store interface with two implementations:
//   - memory: registry for a running process
//   - file: JSON files in a config directory, for the CLI
//
// Sessions expire after an idle TTL; Touch extends the deadline.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/scroll"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its idle TTL.
	ErrExpired = errors.New("expired")

	// ErrClosed is returned when mutating a torn-down session.
	ErrClosed = errors.New("closed")
)

// DefaultTTL is how long an untouched session stays resumable.
const DefaultTTL = 24 * time.Hour

// Session is the UI state of one open conversation board.
type Session struct {
	ID           string         `json:"id"`
	Conversation string         `json:"conversation"`
	Mode         board.Mode     `json:"mode"`
	Viewport     geom.Viewport  `json:"viewport"`
	Selection    []string       `json:"selection,omitempty"`
	Hover        string         `json:"hover,omitempty"`
	SubMode      scroll.SubMode `json:"sub_mode"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `json:"expires_at"`

	closed bool
}

// New opens a session for a conversation with a fresh random id.
func New(conversation string, mode board.Mode, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Conversation: conversation,
		Mode:         mode,
		Viewport:     geom.Viewport{Zoom: 1},
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// IsExpired returns true if the session's idle deadline has passed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the idle deadline by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ExpiresAt = time.Now().Add(ttl)
}

// Close tears the session down. Further mutation returns ErrClosed;
// reads keep working so the final state can still be persisted.
func (s *Session) Close() {
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// SetMode records a layout mode switch.
func (s *Session) SetMode(m board.Mode) error {
	if s.closed {
		return ErrClosed
	}
	s.Mode = m
	return nil
}

// SetViewport records the current viewport.
func (s *Session) SetViewport(v geom.Viewport) error {
	if s.closed {
		return ErrClosed
	}
	s.Viewport = v
	return nil
}

// SetSubMode records the scroll sub-mode.
func (s *Session) SetSubMode(m scroll.SubMode) error {
	if s.closed {
		return ErrClosed
	}
	s.SubMode = m
	return nil
}

// SetHover records the hovered panel id; empty clears it.
func (s *Session) SetHover(panelID string) error {
	if s.closed {
		return ErrClosed
	}
	s.Hover = panelID
	return nil
}

// Select adds a panel to the selection. Reselecting is a no-op.
func (s *Session) Select(panelID string) error {
	if s.closed {
		return ErrClosed
	}
	for _, id := range s.Selection {
		if id == panelID {
			return nil
		}
	}
	s.Selection = append(s.Selection, panelID)
	sort.Strings(s.Selection)
	return nil
}

// Deselect removes a panel from the selection if present.
func (s *Session) Deselect(panelID string) error {
	if s.closed {
		return ErrClosed
	}
	for i, id := range s.Selection {
		if id == panelID {
			s.Selection = append(s.Selection[:i], s.Selection[i+1:]...)
			return nil
		}
	}
	return nil
}

// ClearSelection drops the whole selection.
func (s *Session) ClearSelection() error {
	if s.closed {
		return ErrClosed
	}
	s.Selection = nil
	return nil
}

// Selected reports whether a panel is in the selection.
func (s *Session) Selected(panelID string) bool {
	for _, id := range s.Selection {
		if id == panelID {
			return true
		}
	}
	return false
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// ForConversation retrieves the most recently created live session
	// for a conversation. Returns nil, nil when there is none.
	ForConversation(ctx context.Context, conversation string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// MemoryStore is an in-process Store for a running host.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.IsExpired() {
		return nil, nil
	}
	return s, nil
}

func (m *MemoryStore) ForConversation(ctx context.Context, conversation string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *Session
	for _, s := range m.sessions {
		if s.Conversation != conversation || s.IsExpired() || s.Closed() {
			continue
		}
		if best == nil || s.CreatedAt.After(best.CreatedAt) {
			best = s
		}
	}
	return best, nil
}

func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
