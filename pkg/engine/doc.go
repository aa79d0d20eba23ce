// Package engine orchestrates the board: it owns panel and edge state,
// recomputes layout under both modes, keeps the viewport aligned with
// the UI chrome, animates reflow, and mediates between the content,
// persistence, cache, and geometry collaborators.
//
// The engine assumes the host's single-threaded cooperative model: all
// methods are called from one event loop. Persistence writes are
// optimistic - the local mutation applies synchronously, the write is
// handed to the runner, and a failure rolls the mutation back keyed off
// current ids, so a stale completion cannot clobber state that has
// moved on.
package engine
