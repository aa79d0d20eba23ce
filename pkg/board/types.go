package board

import (
	"time"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// Mode selects how panels are arranged on the canvas.
type Mode = string

// Layout modes.
const (
	// ModeCanvas is the free-form layout where panels are user-draggable
	// at arbitrary positions.
	ModeCanvas = "canvas"
	// ModeLinear is the stacked layout where panels are ordered by
	// creation time and share a single x coordinate.
	ModeLinear = "linear"
)

// ValidModes is the set of supported layout modes.
var ValidModes = map[string]bool{
	ModeCanvas: true,
	ModeLinear: true,
}

// ArrowDirection governs where a newly created panel is placed relative to
// its anchor panel in canvas mode.
type ArrowDirection string

// Placement directions for new panels.
const (
	DirectionDown  ArrowDirection = "down"
	DirectionUp    ArrowDirection = "up"
	DirectionLeft  ArrowDirection = "left"
	DirectionRight ArrowDirection = "right"
)

// Edge styles.
const (
	EdgeStyleSolid          = "solid"
	EdgeStyleDashedAnimated = "dashedAnimated"
)

// HeightNoise is the measured-height delta below which a change is treated
// as render jitter rather than a real collapse/expand transition.
const HeightNoise = 1.0

// Panel is one positioned conversation turn on the board.
type Panel struct {
	// ID is stable across snapshots. It is derived from the underlying
	// conversation-turn identity by the content subsystem.
	ID string `json:"id"`

	// Position is the panel's top-left corner in world coordinates.
	Position geom.Point `json:"position"`

	// MeasuredHeight is the last rendered height reported by the host,
	// in world units. Zero until the first render pass.
	MeasuredHeight float64 `json:"measured_height,omitempty"`

	// Measured reports whether MeasuredHeight reflects at least one real
	// render pass. It disambiguates "never rendered" from "collapsed to
	// zero height": both have MeasuredHeight 0, but only the former uses
	// the layout estimate and suppresses reflow.
	Measured bool `json:"measured,omitempty"`

	// Collapsed mirrors the content subsystem's collapse metadata.
	Collapsed bool `json:"collapsed,omitempty"`

	// CreatedAt orders panels in linear mode.
	CreatedAt time.Time `json:"created_at"`

	// PayloadRef is an opaque reference to the prompt/response content,
	// owned by the content subsystem.
	PayloadRef string `json:"payload_ref,omitempty"`
}

// Bounds returns the panel's world-space rectangle using the given width.
// Panel width is uniform across the board, so it is a layout parameter
// rather than per-panel state.
func (p *Panel) Bounds(width float64) geom.Rect {
	return geom.Rect{X: p.Position.X, Y: p.Position.Y, Width: width, Height: p.MeasuredHeight}
}

// Edge is a directed connection between two panels.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Style  string `json:"style,omitempty"`
}

// EdgeID derives the stable identifier for an edge from its ordered
// endpoint pair. Two edges between the same panels in the same direction
// are the same edge.
func EdgeID(source, target string) string {
	return source + "->" + target
}

// Turn is one entry of an ordered content snapshot: a prompt grouped with
// its responses, reduced to what the board needs. The content subsystem
// owns the payload; the board only tracks the reference and metadata.
type Turn struct {
	ID         string    `json:"id"`
	PayloadRef string    `json:"payload_ref,omitempty"`
	Collapsed  bool      `json:"collapsed,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
