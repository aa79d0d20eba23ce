package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/errors"
	"github.com/tilegrid/boardflow/pkg/geom"
)

func testFile() board.File {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return board.File{
		Conversation: "conv-1",
		Panels: []board.Panel{
			{ID: "a", Position: geom.Point{X: -210, Y: 0}, MeasuredHeight: 320, Measured: true, CreatedAt: base},
			{ID: "b", Position: geom.Point{X: -210, Y: 370}, Collapsed: true, CreatedAt: base.Add(time.Minute)},
		},
		Edges: []board.Edge{
			{ID: board.EdgeID("a", "b"), Source: "a", Target: "b", Style: board.EdgeStyleDashedAnimated},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testFile(), Options{})

	for _, want := range []string{
		"digraph board {",
		"rankdir=TB",
		`"a" [label="a"];`,
		`"a" -> "b" [style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"b" ->`) {
		t.Errorf("unexpected edge from b:\n%s", dot)
	}

	// Collapsed panels get the dashed grey treatment.
	if !strings.Contains(dot, `fillcolor=lightgrey`) {
		t.Error("collapsed panel not styled")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testFile(), Options{Detailed: true})

	for _, want := range []string{"pos: -210,0", "height: 320", "collapsed"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
	// Unmeasured panels omit the height line.
	if strings.Contains(dot, "height: 0") {
		t.Error("unmeasured panel should not report a height")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	f := testFile()
	if ToDOT(f, Options{}) != ToDOT(f, Options{}) {
		t.Fatal("DOT output not deterministic")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "dot", "svg", "png"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	_, err := ParseFormat("pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v, want INVALID_FORMAT", err)
	}
}

// countingCache wraps a backend and counts hits reaching it.
type countingCache struct {
	cache.Cache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.Cache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestExporterCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	backing, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	counting := &countingCache{Cache: backing}
	exp := NewExporter(counting, cache.NewDefaultKeyer(), Options{})

	f := testFile()
	first, err := exp.Export(ctx, f, FormatDOT)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if counting.sets != 1 {
		t.Fatalf("sets = %d, want 1", counting.sets)
	}

	second, err := exp.Export(ctx, f, FormatDOT)
	if err != nil {
		t.Fatalf("second Export: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("cached artifact differs")
	}
	if counting.sets != 1 {
		t.Fatal("second export should be served from cache")
	}

	// A different snapshot misses.
	f.Panels[0].Collapsed = true
	if _, err := exp.Export(ctx, f, FormatDOT); err != nil {
		t.Fatalf("Export after change: %v", err)
	}
	if counting.sets != 2 {
		t.Fatal("changed snapshot should render a new artifact")
	}
}

func TestExporterJSONRoundTrips(t *testing.T) {
	exp := NewExporter(nil, nil, Options{})
	data, err := exp.Export(context.Background(), testFile(), FormatJSON)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := board.Read(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Panels) != 2 || len(f.Edges) != 1 {
		t.Fatalf("round trip lost data: %+v", f)
	}
}
