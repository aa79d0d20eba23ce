package board

import (
	"errors"
	"slices"
	"strings"

	"github.com/tilegrid/boardflow/pkg/geom"
)

var (
	// ErrInvalidPanelID is returned by [Board.AddPanel] when the panel ID
	// is empty. All panels must have non-empty identifiers.
	ErrInvalidPanelID = errors.New("panel ID must not be empty")

	// ErrDuplicatePanelID is returned by [Board.AddPanel] when a panel
	// with the same ID already exists. Panel IDs are unique per board.
	ErrDuplicatePanelID = errors.New("duplicate panel ID")

	// ErrUnknownSourcePanel is returned by [Board.AddEdge] when the
	// source panel does not exist.
	ErrUnknownSourcePanel = errors.New("unknown source panel")

	// ErrUnknownTargetPanel is returned by [Board.AddEdge] when the
	// target panel does not exist.
	ErrUnknownTargetPanel = errors.New("unknown target panel")
)

// Board is the authoritative panel/edge state for one conversation.
//
// The zero value is not usable - use New. Board is not safe for concurrent
// use; all mutation happens on the engine's event loop.
type Board struct {
	conversation string
	panels       map[string]*Panel
	edges        []Edge
	outgoing     map[string][]string // panel ID -> target IDs
	incoming     map[string][]string // panel ID -> source IDs
	dirty        bool
}

// New creates an empty board for the given conversation.
func New(conversation string) *Board {
	return &Board{
		conversation: conversation,
		panels:       make(map[string]*Panel),
		outgoing:     make(map[string][]string),
		incoming:     make(map[string][]string),
	}
}

// Conversation returns the conversation ID this board mirrors.
func (b *Board) Conversation() string { return b.conversation }

// Dirty reports whether the board has mutated since the last layout pass.
func (b *Board) Dirty() bool { return b.dirty }

// ClearDirty marks the board clean. Called by the engine after a
// completed layout pass.
func (b *Board) ClearDirty() { b.dirty = false }

// markDirty flags the board for the next layout pass.
func (b *Board) markDirty() { b.dirty = true }

// AddPanel adds a panel to the board.
// Returns ErrInvalidPanelID if the ID is empty, or ErrDuplicatePanelID if
// the ID is already in use.
func (b *Board) AddPanel(p Panel) error {
	if p.ID == "" {
		return ErrInvalidPanelID
	}
	if _, exists := b.panels[p.ID]; exists {
		return ErrDuplicatePanelID
	}
	panel := &p
	b.panels[panel.ID] = panel
	b.markDirty()
	return nil
}

// Panel returns the panel with the given ID and true, or nil and false if
// not found. The returned pointer refers to the live panel, so direct
// mutation affects the board; prefer the mutating methods, which also
// maintain the dirty flag.
func (b *Board) Panel(id string) (*Panel, bool) {
	p, ok := b.panels[id]
	return p, ok
}

// Panels returns all panels sorted by creation time, ties broken by ID.
// This is the canonical ordering for linear layout and serialization.
func (b *Board) Panels() []*Panel {
	panels := make([]*Panel, 0, len(b.panels))
	for _, p := range b.panels {
		panels = append(panels, p)
	}
	slices.SortFunc(panels, func(a, c *Panel) int {
		if !a.CreatedAt.Equal(c.CreatedAt) {
			if a.CreatedAt.Before(c.CreatedAt) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, c.ID)
	})
	return panels
}

// PanelCount returns the number of panels on the board.
func (b *Board) PanelCount() int { return len(b.panels) }

// Newest returns the most recently created panel, or nil for an empty
// board. Used as the fallback anchor when nothing is selected.
func (b *Board) Newest() *Panel {
	var newest *Panel
	for _, p := range b.panels {
		if newest == nil || p.CreatedAt.After(newest.CreatedAt) ||
			(p.CreatedAt.Equal(newest.CreatedAt) && p.ID > newest.ID) {
			newest = p
		}
	}
	return newest
}

// UpsertResult describes the outcome of diffing a content snapshot
// against current panels.
type UpsertResult struct {
	// Created lists IDs of newly created panels, in snapshot order.
	// These panels have no position yet; the layout engine places them.
	Created []string
	// Updated lists IDs of existing panels whose payload or collapse
	// metadata changed.
	Updated []string
	// Missing lists IDs of current panels absent from the snapshot.
	// The caller decides whether to remove them (content deleted) or
	// keep them (partial snapshot).
	Missing []string
}

// Upsert diffs an ordered content snapshot against current panels.
// New turns become panels (position left zero for the layout engine to
// fill); existing panels get their PayloadRef and Collapsed refreshed
// without touching position or measured height.
func (b *Board) Upsert(turns []Turn) UpsertResult {
	var res UpsertResult
	seen := make(map[string]bool, len(turns))

	for _, turn := range turns {
		if turn.ID == "" {
			continue
		}
		seen[turn.ID] = true
		if existing, ok := b.panels[turn.ID]; ok {
			if existing.PayloadRef != turn.PayloadRef || existing.Collapsed != turn.Collapsed {
				existing.PayloadRef = turn.PayloadRef
				existing.Collapsed = turn.Collapsed
				res.Updated = append(res.Updated, turn.ID)
				b.markDirty()
			}
			continue
		}
		b.panels[turn.ID] = &Panel{
			ID:         turn.ID,
			PayloadRef: turn.PayloadRef,
			Collapsed:  turn.Collapsed,
			CreatedAt:  turn.CreatedAt,
		}
		res.Created = append(res.Created, turn.ID)
		b.markDirty()
	}

	for id := range b.panels {
		if !seen[id] {
			res.Missing = append(res.Missing, id)
		}
	}
	slices.Sort(res.Missing)
	return res
}

// Remove deletes the given panels and prunes edges that reference them.
// Unknown IDs are ignored.
func (b *Board) Remove(ids ...string) {
	removed := false
	for _, id := range ids {
		if _, ok := b.panels[id]; !ok {
			continue
		}
		delete(b.panels, id)
		removed = true
	}
	if removed {
		b.PruneEdges()
		b.markDirty()
	}
}

// SetPosition moves a panel to the given world position.
// Returns false if the panel does not exist.
func (b *Board) SetPosition(id string, pos geom.Point) bool {
	p, ok := b.panels[id]
	if !ok {
		return false
	}
	if p.Position != pos {
		p.Position = pos
		b.markDirty()
	}
	return true
}

// SetCollapsed updates a panel's collapse flag.
// Returns false if the panel does not exist.
func (b *Board) SetCollapsed(id string, collapsed bool) bool {
	p, ok := b.panels[id]
	if !ok {
		return false
	}
	if p.Collapsed != collapsed {
		p.Collapsed = collapsed
		b.markDirty()
	}
	return true
}

// RecordMeasuredHeight stores a panel's rendered height as observed after
// a render pass. It returns the signed delta from the previous height and
// whether that delta exceeds the noise threshold - a true result is the
// trigger for a reflow animation. The first measurement of a panel never
// triggers reflow.
func (b *Board) RecordMeasuredHeight(id string, height float64) (delta float64, reflow bool) {
	p, ok := b.panels[id]
	if !ok {
		return 0, false
	}
	prev := p.MeasuredHeight
	wasMeasured := p.Measured
	if wasMeasured && prev == height {
		return 0, false
	}
	p.MeasuredHeight = height
	p.Measured = true
	b.markDirty()

	delta = height - prev
	if !wasMeasured {
		// First measurement: the panel has never had a settled height,
		// so there is nothing to animate from.
		return delta, false
	}
	if delta < HeightNoise && delta > -HeightNoise {
		return delta, false
	}
	return delta, true
}

// ContentBounds returns the world-space bounding box of all panels using
// the given uniform panel width. Returns the zero rect for an empty board.
func (b *Board) ContentBounds(panelWidth float64) geom.Rect {
	var bounds geom.Rect
	for _, p := range b.panels {
		bounds = bounds.Union(p.Bounds(panelWidth))
	}
	return bounds
}
