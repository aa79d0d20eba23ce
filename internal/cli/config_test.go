package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[layout]
gap = 64
panel_width = 500

[canvas]
width = 1920
height = 1080

[engine]
reflow_duration_ms = 450

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c := New(io.Discard, LogInfo)
	c.ConfigPath = path
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Layout.Gap != 64 || cfg.Layout.PanelWidth != 500 {
		t.Errorf("layout params = %+v", cfg.Layout)
	}
	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if got := cfg.Engine.ReflowDuration(); got != 450*time.Millisecond {
		t.Errorf("reflow duration = %v", got)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}

	// Untouched sections keep zero values so built-in defaults apply.
	if cfg.Layout.EstimatedHeight != 0 {
		t.Errorf("estimated height = %v, want zero", cfg.Layout.EstimatedHeight)
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("missing default config should not error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero", cfg)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.ConfigPath = filepath.Join(t.TempDir(), "nope.toml")

	if _, err := c.loadConfig(); err == nil {
		t.Fatal("explicitly named missing config should error")
	}
}

func TestDefaultConfigPathXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	path, err := defaultConfigPath()
	if err != nil {
		t.Fatalf("defaultConfigPath: %v", err)
	}
	if path != filepath.Join(base, "boardflow", "config.toml") {
		t.Errorf("path = %q", path)
	}
}
