package layout

import "github.com/tilegrid/boardflow/pkg/geom"

// Chrome element names understood by [Environment.Rect].
const (
	ElementSidebar  = "sidebar"
	ElementInputBox = "inputBox"
	ElementOverview = "overview"
)

// Environment provides read-only geometry of the host surface and its
// chrome. Implementations query the actual rendering host; tests and the
// CLI use [FixedEnvironment]. The engine never touches the host directly.
type Environment interface {
	// CanvasSize returns the size of the drawable canvas area in screen
	// coordinates.
	CanvasSize() geom.Size

	// Rect returns the bounding rectangle of a named chrome element in
	// screen coordinates, and whether the element could be located.
	Rect(name string) (geom.Rect, bool)
}

// Default geometry used when a chrome element cannot be located.
// Derived from the default canvas size below; real hosts override all of
// this through their Environment implementation.
const (
	DefaultCanvasWidth  = 1440.0
	DefaultCanvasHeight = 900.0

	defaultInputBoxWidth  = 720.0
	defaultInputBoxHeight = 120.0
	defaultOverviewWidth  = 220.0
	defaultOverviewHeight = 150.0
	defaultOverviewInset  = 24.0
)

// GeometrySnapshot is the chrome geometry captured once per layout pass.
// Fields are always populated; missing elements are replaced by defaults.
type GeometrySnapshot struct {
	Canvas   geom.Size
	Sidebar  geom.Rect
	InputBox geom.Rect
	Overview geom.Rect

	// Degraded lists the element names that fell back to defaults.
	// Informational only; layout proceeds regardless.
	Degraded []string
}

// Capture queries the environment once and fills in defaults for any
// element that cannot be located. A nil environment yields a snapshot
// built entirely from defaults.
func Capture(env Environment) GeometrySnapshot {
	var snap GeometrySnapshot

	if env != nil {
		snap.Canvas = env.CanvasSize()
	}
	if snap.Canvas.Width <= 0 || snap.Canvas.Height <= 0 {
		snap.Canvas = geom.Size{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
	}

	snap.Sidebar = captureRect(env, ElementSidebar, geom.Rect{}, &snap)
	snap.InputBox = captureRect(env, ElementInputBox, defaultInputBox(snap.Canvas), &snap)
	snap.Overview = captureRect(env, ElementOverview, defaultOverview(snap.Canvas), &snap)
	return snap
}

func captureRect(env Environment, name string, fallback geom.Rect, snap *GeometrySnapshot) geom.Rect {
	if env != nil {
		if r, ok := env.Rect(name); ok {
			return r
		}
	}
	snap.Degraded = append(snap.Degraded, name)
	return fallback
}

// defaultInputBox is centered at the bottom of the canvas.
func defaultInputBox(canvas geom.Size) geom.Rect {
	return geom.Rect{
		X:      (canvas.Width - defaultInputBoxWidth) / 2,
		Y:      canvas.Height - defaultInputBoxHeight - defaultOverviewInset,
		Width:  defaultInputBoxWidth,
		Height: defaultInputBoxHeight,
	}
}

// defaultOverview sits in the bottom-right corner.
func defaultOverview(canvas geom.Size) geom.Rect {
	return geom.Rect{
		X:      canvas.Width - defaultOverviewWidth - defaultOverviewInset,
		Y:      canvas.Height - defaultOverviewHeight - defaultOverviewInset,
		Width:  defaultOverviewWidth,
		Height: defaultOverviewHeight,
	}
}

// FixedEnvironment is an Environment backed by literal values.
// Elements left as zero rects report as unavailable, exercising the
// default fallbacks.
type FixedEnvironment struct {
	Canvas   geom.Size
	Elements map[string]geom.Rect
}

// CanvasSize returns the configured canvas size.
func (f *FixedEnvironment) CanvasSize() geom.Size { return f.Canvas }

// Rect returns the configured rectangle for the named element.
func (f *FixedEnvironment) Rect(name string) (geom.Rect, bool) {
	r, ok := f.Elements[name]
	if !ok || (r == geom.Rect{}) {
		return geom.Rect{}, false
	}
	return r, true
}

// Ensure FixedEnvironment implements Environment.
var _ Environment = (*FixedEnvironment)(nil)
