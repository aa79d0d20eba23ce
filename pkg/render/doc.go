// Package render turns board snapshots into visual artifacts.
//
// # Overview
//
// This package renders the panel connectivity graph as a traditional
// node-link diagram using Graphviz. Panels appear as boxes connected by
// arrows; collapsed panels are drawn dashed and grey.
//
// # Usage
//
// Convert a board snapshot to DOT, then render:
//
//	dot := render.ToDOT(file, render.Options{})
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include position, measured height, and
//     collapse state in addition to the panel ID.
//
// # Artifact caching
//
// The [Exporter] wraps rendering with a content-addressed artifact
// cache: the board snapshot is hashed, and a previously rendered
// artifact for the same snapshot and format is served from cache.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// and PNG rendering; no external Graphviz installation is needed.
package render
