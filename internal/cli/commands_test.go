package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/content"
)

// execute runs the root command with args, with all output discarded.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func writeConversation(t *testing.T, dir, conversation string, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	turns := make([]board.Turn, 0, n)
	for i := 0; i < n; i++ {
		turns = append(turns, board.Turn{
			ID:        "t" + string(rune('1'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := content.NewFileProvider(dir).WriteTurns(conversation, turns); err != nil {
		t.Fatalf("write turns: %v", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeConversation(t, dir, "conv-1", 3)
	out := filepath.Join(dir, "out.board.json")

	err := execute(t, "layout", "conv-1", "--content-dir", dir, "-o", out, "--no-cache")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	f, err := board.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if f.Conversation != "conv-1" || len(f.Panels) != 3 {
		t.Fatalf("board = %+v", f)
	}
	if f.Mode != board.ModeCanvas {
		t.Errorf("mode = %q", f.Mode)
	}
	if f.Viewport.Zoom <= 0 {
		t.Error("viewport missing from output")
	}
}

func TestLayoutCommandLinear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeConversation(t, dir, "conv-1", 3)
	out := filepath.Join(dir, "out.board.json")

	err := execute(t, "layout", "conv-1", "-d", dir, "-o", out, "-m", "linear", "--no-cache")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	f, err := board.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if f.Mode != board.ModeLinear {
		t.Fatalf("mode = %q", f.Mode)
	}
	for _, p := range f.Panels {
		if p.Position.X != 0 {
			t.Errorf("panel %s x = %v, want 0 in linear mode", p.ID, p.Position.X)
		}
	}
}

func TestLayoutCommandUnknownMode(t *testing.T) {
	if err := execute(t, "layout", "conv-1", "-m", "spiral"); err == nil {
		t.Fatal("unknown mode should error")
	}
}

func TestLayoutCommandMissingConversation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()

	if err := execute(t, "layout", "ghost", "-d", dir, "--no-cache"); err == nil {
		t.Fatal("missing conversation should error")
	}
}

func TestExportCommandDOT(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()

	f := board.File{
		Conversation: "conv-1",
		Mode:         board.ModeCanvas,
		Panels: []board.Panel{
			{ID: "a", CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			{ID: "b", CreatedAt: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)},
		},
		Edges: []board.Edge{{ID: "a->b", Source: "a", Target: "b", Style: board.EdgeStyleSolid}},
	}
	input := filepath.Join(dir, "conv.board.json")
	if err := f.WriteFile(input); err != nil {
		t.Fatalf("write board: %v", err)
	}
	out := filepath.Join(dir, "conv.dot")

	if err := execute(t, "export", input, "-f", "dot", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "digraph board") {
		t.Errorf("unexpected DOT output: %s", data)
	}
	if !strings.Contains(string(data), `"a" -> "b"`) {
		t.Errorf("edge missing from DOT output: %s", data)
	}
}

func TestExportCommandBadFormat(t *testing.T) {
	if err := execute(t, "export", "whatever.json", "-f", "gif"); err == nil {
		t.Fatal("unknown format should error")
	}
}

func TestExportDefaultOutputPath(t *testing.T) {
	if got := defaultOutputPath("conv.board.json", ".svg"); got != "conv.board.svg" {
		t.Errorf("defaultOutputPath = %q", got)
	}
	if got := defaultOutputPath("plain", ".dot"); got != "plain.dot" {
		t.Errorf("defaultOutputPath = %q", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := execute(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
}

func TestCacheClearCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}
