package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// DefaultDebounce is the trailing-edge window for position writes. A
// drag emits positions every frame; only the last state inside the
// window is written.
const DefaultDebounce = 400 * time.Millisecond

// Positions maps panel id to its cached canvas position.
type Positions map[string]geom.Point

// PositionCache persists canvas panel positions per conversation, with
// debounced writes so rapid drag sequences produce one write, not one
// per frame. Only canvas-mode positions are cached; linear positions
// are derived and never stored.
type PositionCache struct {
	cache    Cache
	keyer    Keyer
	debounce time.Duration

	// newTimer schedules fire after d and returns a stop function.
	// Defaults to time.AfterFunc; tests inject a manual trigger.
	newTimer func(d time.Duration, fire func()) (stop func())

	mu      sync.Mutex
	pending map[string]Positions
	stops   map[string]func()
}

// NewPositionCache wraps a cache backend. A non-positive debounce uses
// DefaultDebounce; a nil keyer uses the default keyer.
func NewPositionCache(c Cache, k Keyer, debounce time.Duration) *PositionCache {
	if k == nil {
		k = NewDefaultKeyer()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &PositionCache{
		cache:    c,
		keyer:    k,
		debounce: debounce,
		newTimer: func(d time.Duration, fire func()) func() {
			t := time.AfterFunc(d, fire)
			return func() { t.Stop() }
		},
		pending: make(map[string]Positions),
		stops:   make(map[string]func()),
	}
}

// Load retrieves the cached positions for a conversation.
// A miss returns nil, nil.
func (p *PositionCache) Load(ctx context.Context, conversation string) (Positions, error) {
	data, ok, err := p.cache.Get(ctx, p.keyer.PositionsKey(conversation))
	if err != nil || !ok {
		return nil, err
	}
	var pos Positions
	if err := json.Unmarshal(data, &pos); err != nil {
		// Corrupt entry - treat as miss.
		return nil, nil
	}
	return pos, nil
}

// Store schedules a debounced write of the conversation's positions.
// Each call replaces the pending state and restarts the window, so only
// the final state of a burst is written.
func (p *PositionCache) Store(conversation string, pos Positions) {
	cp := make(Positions, len(pos))
	for id, pt := range pos {
		cp[id] = pt
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[conversation] = cp
	if stop := p.stops[conversation]; stop != nil {
		stop()
	}
	p.stops[conversation] = p.newTimer(p.debounce, func() {
		p.flush(context.Background(), conversation)
	})
}

// Flush writes any pending positions immediately, cancelling the timer.
// Used on teardown so the last drag state is not lost to the window.
func (p *PositionCache) Flush(ctx context.Context, conversation string) error {
	return p.flush(ctx, conversation)
}

// Drop discards the cached and pending positions for a conversation.
func (p *PositionCache) Drop(ctx context.Context, conversation string) error {
	p.mu.Lock()
	delete(p.pending, conversation)
	if stop := p.stops[conversation]; stop != nil {
		stop()
		delete(p.stops, conversation)
	}
	p.mu.Unlock()

	return p.cache.Delete(ctx, p.keyer.PositionsKey(conversation))
}

func (p *PositionCache) flush(ctx context.Context, conversation string) error {
	p.mu.Lock()
	pos, ok := p.pending[conversation]
	delete(p.pending, conversation)
	if stop := p.stops[conversation]; stop != nil {
		stop()
		delete(p.stops, conversation)
	}
	p.mu.Unlock()

	if !ok {
		return nil
	}
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	// Backend hiccups retry briefly; positions are advisory and the
	// next drag will flush again anyway.
	return RetryWithBackoff(ctx, func() error {
		return Retryable(p.cache.Set(ctx, p.keyer.PositionsKey(conversation), data, PositionsTTL))
	})
}
