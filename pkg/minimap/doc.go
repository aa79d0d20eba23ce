// Package minimap turns pointer input on the overview widget into
// viewport commands.
//
// The navigator distinguishes clicks from drags with a pixel threshold,
// resolves clicks to the nearest panel in the overview's normalized
// coordinate space, and arms a fallback timer for the case where the
// overview's own rendering layer swallows the pointer-up event. It
// never mutates the viewport itself; it emits [Result] values and the
// caller applies them.
package minimap
