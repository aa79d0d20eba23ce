package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tilegrid/boardflow/pkg/layout"
)

// Config is the on-disk TOML configuration. All sections are optional;
// zero values fall back to built-in defaults.
type Config struct {
	Layout layout.Params `toml:"layout"`
	Canvas CanvasConfig  `toml:"canvas"`
	Engine EngineConfig  `toml:"engine"`
	Server ServerConfig  `toml:"server"`
}

// CanvasConfig sizes the headless canvas used by the layout, export,
// and serve commands, which have no real host surface to measure.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// EngineConfig holds engine tunables.
type EngineConfig struct {
	// ReflowDurationMS is the reflow animation length in milliseconds.
	ReflowDurationMS int `toml:"reflow_duration_ms"`

	// PositionDebounceMS is the position cache write debounce in
	// milliseconds.
	PositionDebounceMS int `toml:"position_debounce_ms"`
}

// ServerConfig holds defaults for the serve command. Flags override
// these values.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	ContentDir string `toml:"content_dir"`
	MongoURI   string `toml:"mongo_uri"`
	RedisAddr  string `toml:"redis_addr"`
}

// ReflowDuration returns the configured animation length, or zero when
// unset so the engine default applies.
func (e EngineConfig) ReflowDuration() time.Duration {
	return time.Duration(e.ReflowDurationMS) * time.Millisecond
}

// loadConfig reads the TOML config file. A missing file at the default
// location yields a zero config; a missing file passed via --config is
// an error.
func (c *CLI) loadConfig() (Config, error) {
	path := c.ConfigPath
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return Config{}, nil
		}
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		c.Logger.Warn("unknown config key", "key", key.String(), "file", path)
	}
	return cfg, nil
}

// defaultConfigPath returns the config file location using the XDG
// standard (~/.config/boardflow/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
