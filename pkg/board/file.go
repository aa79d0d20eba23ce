package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// File is the canonical serialization format for a board.
// Used by the CLI, the debug server, and tests. The format is
// human-readable and designed for round-trip fidelity: export followed by
// re-import produces an identical board.
type File struct {
	Conversation string        `json:"conversation"`
	Mode         string        `json:"mode,omitempty"`
	Viewport     geom.Viewport `json:"viewport,omitempty"`
	Panels       []Panel       `json:"panels"`
	Edges        []Edge        `json:"edges,omitempty"`
}

// Snapshot captures the board into its serialization format.
// Panels appear in creation order; edges in insertion order.
func (b *Board) Snapshot() File {
	panels := b.Panels()
	f := File{
		Conversation: b.conversation,
		Panels:       make([]Panel, len(panels)),
		Edges:        b.Edges(),
	}
	for i, p := range panels {
		f.Panels[i] = *p
	}
	return f
}

// FromFile builds a board from its serialization format.
// Returns an error if a panel or edge violates store constraints.
func FromFile(f File) (*Board, error) {
	b := New(f.Conversation)
	for _, p := range f.Panels {
		if err := b.AddPanel(p); err != nil {
			return nil, fmt.Errorf("add panel %s: %w", p.ID, err)
		}
	}
	for _, e := range f.Edges {
		if _, _, err := b.AddEdge(e.Source, e.Target, e.Style); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	b.ClearDirty()
	return b, nil
}

// Write encodes the file as indented JSON to w.
func (f File) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return nil
}

// Read decodes a board file from r.
func Read(r io.Reader) (File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode board: %w", err)
	}
	if f.Mode == "" {
		f.Mode = ModeCanvas
	}
	if !ValidModes[f.Mode] {
		return File{}, fmt.Errorf("invalid mode: %q (must be one of: canvas, linear)", f.Mode)
	}
	if f.Viewport.Zoom == 0 {
		f.Viewport = geom.NewViewport()
	}
	return f, nil
}

// ReadFile reads a board file from disk.
func ReadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	defer fh.Close()
	return Read(fh)
}

// WriteFile writes a board file to disk.
func (f File) WriteFile(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer fh.Close()
	return f.Write(fh)
}
