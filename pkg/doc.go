// Package pkg provides the core libraries for Boardflow panel layout.
//
// # Overview
//
// Boardflow arranges conversation turns as panels on an infinite 2D
// canvas and keeps the viewport synchronized with the host chrome. The
// pkg directory is organized into a few main areas:
//
//  1. [board] - The panel/edge data model and its JSON file format
//  2. [layout] - Placement, alignment, and reflow-shift computation
//  3. [engine] - The single-threaded coordinator tying everything together
//  4. [geom], [scroll], [minimap], [anim] - Viewport math and interaction
//  5. [content], [store], [cache] - Turn sources, edge persistence, caching
//  6. [render] - Node-link export as JSON, DOT, SVG, and PNG
//
// # Architecture
//
// The typical data flow through Boardflow:
//
//	Conversation Turns (file, memory, or HTTP)
//	         ↓
//	    [board] package (panels, edges, components)
//	         ↓
//	    [layout] package (placement + alignment + reflow shifts)
//	         ↓
//	    [engine] package (viewport, animation, persistence)
//	         ↓
//	    host render pass / [render] export
//
// # Quick Start
//
//	provider := content.NewFileProvider("./conversations")
//	eng, err := engine.New(engine.Options{
//	    Environment: &layout.FixedEnvironment{Canvas: geom.Size{Width: 1440, Height: 900}},
//	    Content:     provider,
//	    Edges:       store.NewMemoryStore(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.LoadConversation(ctx, "conv-1"); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(eng.Viewport())
//
// Ambient concerns live in [errors] (coded errors with user messages)
// and [observability] (lifecycle hooks for layout, animation, cache,
// and store events).
package pkg
