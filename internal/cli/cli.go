// Package cli implements the boardflow command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tilegrid/boardflow/pkg/buildinfo"
	"github.com/tilegrid/boardflow/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "boardflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag value. Empty means the default
	// location, which may legitimately not exist.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "boardflow",
		Short:        "Boardflow lays out conversation panels on a 2D canvas",
		Long:         `Boardflow arranges conversation turns as panels on an infinite 2D canvas, keeps the viewport synchronized with the surrounding chrome, and exports the result as JSON, DOT, SVG, or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/boardflow/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache opens the local file cache, or a null cache when caching is
// disabled or the cache directory cannot be resolved.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// positionCache builds the debounced position cache shared by the
// layout and view commands.
func positionCache(noCache bool) (*cache.PositionCache, cache.Cache, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewPositionCache(store, cache.NewDefaultKeyer(), cache.DefaultDebounce), store, nil
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/boardflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
