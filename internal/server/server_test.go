package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/content"
	"github.com/tilegrid/boardflow/pkg/engine"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/layout"
	"github.com/tilegrid/boardflow/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts, _ := newTestServerWithStore(t)
	return ts
}

func newTestServerWithStore(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	provider := content.NewMemoryProvider()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	provider.SetTurns("conv-1", []board.Turn{
		{ID: "t1", CreatedAt: base},
		{ID: "t2", CreatedAt: base.Add(time.Minute)},
	})
	edges := store.NewMemoryStore()

	e, err := engine.New(engine.Options{
		Environment: &layout.FixedEnvironment{Canvas: geom.Size{Width: 1440, Height: 900}},
		Content:     provider,
		Edges:       edges,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	srv := New(e, nil, log.NewWithOptions(io.Discard, log.Options{}))
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, edges
}

func loadConversation(t *testing.T, ts *httptest.Server) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/load", "application/json", strings.NewReader(`{"conversation":"conv-1"}`))
	if err != nil {
		t.Fatalf("POST /v1/load: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Fatalf("body = %v", body)
	}
}

func TestBoardRequiresLoad(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/board")
	if err != nil {
		t.Fatalf("GET /v1/board: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409 before load", resp.StatusCode)
	}
}

func TestBoardSnapshot(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Get(ts.URL + "/v1/board")
	if err != nil {
		t.Fatalf("GET /v1/board: %v", err)
	}
	defer resp.Body.Close()

	f, err := board.Read(resp.Body)
	if err != nil {
		t.Fatalf("snapshot is not a valid board file: %v", err)
	}
	if f.Conversation != "conv-1" || len(f.Panels) != 2 {
		t.Fatalf("snapshot = %+v", f)
	}
	if f.Mode != board.ModeCanvas {
		t.Fatalf("mode = %q", f.Mode)
	}
	if f.Viewport.Zoom <= 0 {
		t.Fatal("viewport missing from snapshot")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Get(ts.URL + "/v1/layout")
	if err != nil {
		t.Fatalf("GET /v1/layout: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Viewport  geom.Viewport `json:"viewport"`
		Reflowing bool          `json:"reflowing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Viewport.Zoom <= 0 {
		t.Fatal("layout response missing viewport")
	}
}

func TestEdgeLifecycle(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Post(ts.URL+"/v1/edges", "application/json",
		strings.NewReader(`{"source":"t1","target":"t2"}`))
	if err != nil {
		t.Fatalf("POST /v1/edges: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var edge board.Edge
	if err := json.NewDecoder(resp.Body).Decode(&edge); err != nil {
		t.Fatalf("decode edge: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/edges/"+edge.ID, nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", del.StatusCode)
	}

	// Deleting again is a 404: the edge is gone from the board.
	again, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second DELETE: %v", err)
	}
	again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d", again.StatusCode)
	}
}

func TestEdgeReloadEndpoint(t *testing.T) {
	ts, edges := newTestServerWithStore(t)
	loadConversation(t, ts)

	// An edge lands in the store behind the engine's back.
	if err := edges.Create(context.Background(), store.EdgeRecord{
		Conversation: "conv-1", Source: "t1", Target: "t2",
	}); err != nil {
		t.Fatalf("seed edge: %v", err)
	}

	resp, err := http.Post(ts.URL+"/v1/edges/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /v1/edges/reload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Edges int `json:"edges"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Edges != 1 {
		t.Fatalf("edges = %d after reload, want 1", body.Edges)
	}
}

func TestCreateEdgeUnknownPanel(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Post(ts.URL+"/v1/edges", "application/json",
		strings.NewReader(`{"source":"t1","target":"missing"}`))
	if err != nil {
		t.Fatalf("POST /v1/edges: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestModeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Post(ts.URL+"/v1/mode", "application/json", strings.NewReader(`{"mode":"linear"}`))
	if err != nil {
		t.Fatalf("POST /v1/mode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	bad, err := http.Post(ts.URL+"/v1/mode", "application/json", strings.NewReader(`{"mode":"spiral"}`))
	if err != nil {
		t.Fatalf("POST bad mode: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad mode status = %d", bad.StatusCode)
	}
}

func TestReflowEndpoint(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Post(ts.URL+"/v1/reflow", "application/json",
		strings.NewReader(`{"panel_id":"t1","height":320}`))
	if err != nil {
		t.Fatalf("POST /v1/reflow: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Reflowing bool `json:"reflowing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// First measurement never animates.
	if body.Reflowing {
		t.Fatal("first measurement should not reflow")
	}
}

func TestExportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	loadConversation(t, ts)

	resp, err := http.Get(ts.URL + "/v1/export?format=dot")
	if err != nil {
		t.Fatalf("GET /v1/export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Fatalf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "digraph board") {
		t.Fatalf("unexpected DOT output: %s", data)
	}

	bad, err := http.Get(ts.URL + "/v1/export?format=gif")
	if err != nil {
		t.Fatalf("GET bad format: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad format status = %d", bad.StatusCode)
	}
}
