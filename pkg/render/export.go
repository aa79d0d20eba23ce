package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/errors"
)

// Format is an export artifact format.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// ParseFormat validates a format string from a flag or request.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatDOT, FormatSVG, FormatPNG:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "format %q (must be one of: json, dot, svg, png)", s)
}

// Exporter renders board snapshots with content-addressed artifact
// caching: identical snapshot plus format serves the cached bytes.
type Exporter struct {
	cache cache.Cache
	keyer cache.Keyer
	opts  Options
}

// NewExporter creates an exporter. A nil cache disables caching.
func NewExporter(c cache.Cache, k cache.Keyer, opts Options) *Exporter {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Exporter{cache: c, keyer: k, opts: opts}
}

// Export renders the snapshot in the given format.
func (e *Exporter) Export(ctx context.Context, f board.File, format Format) ([]byte, error) {
	snapshot, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal board: %w", err)
	}

	key := e.keyer.ArtifactKey(cache.Hash(snapshot), string(format))
	if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	data, err := e.renderArtifact(f, snapshot, format)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		// The artifact is still good; caching is best-effort.
		return data, nil
	}
	return data, nil
}

func (e *Exporter) renderArtifact(f board.File, snapshot []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return snapshot, nil
	case FormatDOT:
		return []byte(ToDOT(f, e.opts)), nil
	case FormatSVG:
		return SVG(ToDOT(f, e.opts))
	case FormatPNG:
		return PNG(ToDOT(f, e.opts))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q", format)
}
