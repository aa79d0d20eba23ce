// Package board holds the authoritative in-memory state of a conversation
// board: the set of positioned panels and the directed edges connecting them.
//
// A [Board] mirrors what the content subsystem reports for one conversation.
// It owns identity, geometry, collapse state, and connectivity - it does not
// compute positions (that is pkg/layout) and it does not talk to persistence
// (that is pkg/store and pkg/cache). Every mutation marks the board dirty so
// the engine knows a layout pass is due.
//
// # Panels
//
// Panels are created by diffing an ordered content snapshot against current
// state ([Board.Upsert]). Existing panels keep their position; only payload
// and collapse metadata are refreshed. Panels report measured render heights
// after the fact via [Board.RecordMeasuredHeight], which is what ultimately
// drives reflow animation.
//
// # Edges
//
// Edges are directed and unique per (source, target) pair. Inserting a
// duplicate is a no-op, not an error. Edges whose endpoints have been removed
// are pruned silently at the next [Board.PruneEdges] - a dangling reference
// is reconciliation work, never a failure.
//
// The connected component around a panel ([Board.ConnectedComponent], BFS
// over both edge directions) is the unit of bulk collapse/expand. The toggle
// policy is asymmetric on purpose: a fully expanded component collapses
// entirely, while a mixed component only expands its collapsed members.
//
// Board is not safe for concurrent use; the engine drives it from a single
// event loop.
package board
