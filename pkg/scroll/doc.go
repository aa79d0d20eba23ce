// Package scroll translates wheel input into viewport updates.
//
// Behavior is a small state machine over sub-mode (scroll vs zoom)
// crossed with layout mode (canvas vs linear). A modifier key forces
// zoom regardless of sub-mode; linear mode pans vertically only, keeps
// the horizontal pan pinned to the alignment offset, and clamps the
// bottom of the scroll range to the last panel plus a reserved margin.
package scroll
