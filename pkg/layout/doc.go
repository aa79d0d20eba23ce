// Package layout computes target panel positions and the viewport
// alignment for a board.
//
// The package is deliberately headless: all geometry of the surrounding
// chrome (sidebar, floating input box, overview widget) arrives through
// the [Environment] interface, captured once per pass into a
// [GeometrySnapshot]. When an element cannot be located - not mounted
// yet, or the host simply has no such chrome - fixed default rectangles
// take its place, so layout never fails on missing geometry.
//
// Two modes exist. Canvas mode is free placement: only newly created
// panels are positioned, relative to an anchor panel and an arrow
// direction; everything else keeps its dragged or cached position.
// Linear mode is a recomputed stack: panels sorted by creation time,
// one shared x, cumulative y.
//
// The alignment policy ([ComputeAlignment]) decides whether the panel
// stack is pushed against the left boundary or centered, and yields the
// horizontal viewport offset. The offset moves the viewport, never the
// panels, so "centered" has a single source of truth.
package layout
