package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tilegrid/boardflow/pkg/board"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes position, measured height, and collapse state
	// in node labels. When false, only the panel ID is shown.
	Detailed bool
}

// ToDOT converts a board snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered with [SVG] or [PNG].
//
// Collapsed panels are rendered with dashed outlines and grey fill.
// Edges styled dashedAnimated are drawn dashed; the animation itself is
// a live-surface concern and has no static equivalent.
func ToDOT(f board.File, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph board {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range f.Panels {
		label := fmtLabel(p, opts.Detailed)
		attrs := fmtAttrs(p, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		if e.Style == board.EdgeStyleDashedAnimated {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p board.Panel, detailed bool) string {
	if !detailed {
		return p.ID
	}

	parts := []string{
		fmt.Sprintf("pos: %.0f,%.0f", p.Position.X, p.Position.Y),
	}
	if p.Measured {
		parts = append(parts, fmt.Sprintf("height: %.0f", p.MeasuredHeight))
	}
	if p.Collapsed {
		parts = append(parts, "collapsed")
	}
	return p.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(p board.Panel, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if p.Collapsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}
