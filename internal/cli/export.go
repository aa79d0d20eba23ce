package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/render"
)

// exportCommand creates the export command for rendering board files.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "export <board.json>",
		Short: "Export a board file as JSON, DOT, SVG, or PNG",
		Long: `Export a board file as JSON, DOT, SVG, or PNG.

The export command reads a board file (produced by 'layout' or saved by
the debug server) and renders it as a node-link diagram. SVG and PNG
rendering uses an embedded Graphviz, so no external installation is
needed.

Rendered artifacts are cached by content hash, so re-exporting an
unchanged board is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], format, output, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatSVG), "output format: json, dot, svg (default), png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include positions and measurements in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runExport reads the board file, renders it, and writes the artifact.
func (c *CLI) runExport(ctx context.Context, input, format, output string, detailed, noCache bool) error {
	fm, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	f, err := board.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load board %s: %w", input, err)
	}

	cacheStore, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cacheStore.Close()

	exporter := render.NewExporter(cacheStore, cache.NewDefaultKeyer(), render.Options{Detailed: detailed})

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", fm))
	spinner.Start()
	data, err := exporter.Export(ctx, f, fm)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", fm, err)
	}
	spinner.Stop()
	loggerFromContext(ctx).Debug("rendered artifact", "format", fm, "bytes", len(data))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, "."+string(fm))
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(len(f.Panels), len(f.Edges))

	return nil
}
