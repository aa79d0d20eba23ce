package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/content"
	"github.com/tilegrid/boardflow/pkg/engine"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/layout"
	"github.com/tilegrid/boardflow/pkg/store"
)

// layoutCommand creates the layout command for computing board layouts
// headlessly.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		contentDir string
		output     string
		mode       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout <conversation>",
		Short: "Compute a board layout for a conversation",
		Long: `Compute a board layout for a conversation.

The layout command reads <conversation>.json from the content directory,
places each turn as a panel, and writes the resulting board file. The
board file can be rendered with 'boardflow export' or browsed with
'boardflow view'.

Canvas panel positions are cached locally, so manual arrangements made
in 'view' survive into subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], contentDir, output, mode, noCache)
		},
	}

	cmd.Flags().StringVarP(&contentDir, "content-dir", "d", ".", "directory holding conversation turn files")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <conversation>.board.json)")
	cmd.Flags().StringVarP(&mode, "mode", "m", board.ModeCanvas, "layout mode: canvas (default), linear")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable position caching")

	return cmd
}

// runLayout loads the conversation, runs the layout engine once, and
// writes the board file.
func (c *CLI) runLayout(ctx context.Context, conversation, contentDir, output, mode string, noCache bool) error {
	if !board.ValidModes[mode] {
		return fmt.Errorf("unknown mode %q", mode)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	positions, cacheStore, err := positionCache(noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cacheStore.Close()

	eng, err := engine.New(engine.Options{
		Environment: headlessEnvironment(cfg),
		Content:     content.NewFileProvider(contentDir),
		Edges:       store.NewMemoryStore(),
		Params:      cfg.Layout,
		Positions:   positions,
		Logger:      c.Logger,
	})
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Teardown(ctx)

	track := newProgress(loggerFromContext(ctx))

	if err := eng.LoadConversation(ctx, conversation); err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	if mode != board.ModeCanvas {
		if err := eng.SetMode(ctx, mode); err != nil {
			return err
		}
	}
	track.done(fmt.Sprintf("Placed %d panels", eng.Board().PanelCount()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	f := eng.Board().Snapshot()
	f.Mode = eng.Session().Mode
	f.Viewport = eng.Viewport()

	outputPath := output
	if outputPath == "" {
		outputPath = conversation + ".board.json"
	}
	if err := f.WriteFile(outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(f.Panels), len(f.Edges))
	printNewline()
	printNextStep("Render", "boardflow export "+outputPath)
	printNextStep("Browse", "boardflow view "+outputPath)

	return nil
}

// headlessEnvironment builds the fixed environment used by commands
// that have no real host surface. Chrome elements are left unset so the
// engine falls back to its default input box and overview geometry.
func headlessEnvironment(cfg Config) *layout.FixedEnvironment {
	canvas := geom.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = geom.Size{Width: layout.DefaultCanvasWidth, Height: layout.DefaultCanvasHeight}
	}
	return &layout.FixedEnvironment{Canvas: canvas}
}

// defaultOutputPath swaps the extension of input for suffix.
func defaultOutputPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix
}
