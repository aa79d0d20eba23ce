package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilegrid/boardflow/internal/server"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/content"
	"github.com/tilegrid/boardflow/pkg/engine"
	"github.com/tilegrid/boardflow/pkg/render"
	"github.com/tilegrid/boardflow/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the debug HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		contentDir string
		mongoURI   string
		redisAddr  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board debug HTTP API",
		Long: `Run the board debug HTTP API.

The server hosts a single layout engine behind a JSON API: load a
conversation, inspect the board and viewport, trigger reflows and mode
switches, manage edges, and export rendered artifacts.

Edges persist in memory by default; pass --mongo-uri for durable
storage. Caches live on the local filesystem unless --redis-addr points
at a shared Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, contentDir, mongoURI, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&contentDir, "content-dir", "d", ".", "directory holding conversation turn files")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string for durable edge storage")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for shared caching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires up the engine, stores, and caches, then serves until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, contentDir, mongoURI, redisAddr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.Addr != "" && addr == ":8080" {
		addr = cfg.Server.Addr
	}
	if cfg.Server.ContentDir != "" && contentDir == "." {
		contentDir = cfg.Server.ContentDir
	}
	if mongoURI == "" {
		mongoURI = cfg.Server.MongoURI
	}
	if redisAddr == "" {
		redisAddr = cfg.Server.RedisAddr
	}

	edges, err := c.newEdgeStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer edges.Close(context.Background())

	cacheStore, err := c.newServerCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	defer cacheStore.Close()

	keyer := cache.NewDefaultKeyer()
	debounce := cache.DefaultDebounce
	if cfg.Engine.PositionDebounceMS > 0 {
		debounce = time.Duration(cfg.Engine.PositionDebounceMS) * time.Millisecond
	}

	eng, err := engine.New(engine.Options{
		Environment:    headlessEnvironment(cfg),
		Content:        content.NewFileProvider(contentDir),
		Edges:          edges,
		Params:         cfg.Layout,
		Positions:      cache.NewPositionCache(cacheStore, keyer, debounce),
		ReflowDuration: cfg.Engine.ReflowDuration(),
		Logger:         c.Logger,
	})
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Teardown(context.Background())

	exporter := render.NewExporter(cacheStore, keyer, render.Options{})
	srv := server.New(eng, exporter, c.Logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", addr, "content", contentDir)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newEdgeStore picks MongoDB when a URI is configured, otherwise an
// in-memory store.
func (c *CLI) newEdgeStore(ctx context.Context, mongoURI string) (store.EdgeStore, error) {
	if mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
	if err != nil {
		return nil, fmt.Errorf("connect edge store: %w", err)
	}
	c.Logger.Info("using mongodb edge store")
	return ms, nil
}

// newServerCache picks Redis when an address is configured, otherwise
// the local file cache.
func (c *CLI) newServerCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if redisAddr == "" {
		return newCache(noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	if err != nil {
		return nil, fmt.Errorf("connect cache: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", redisAddr)
	return rc, nil
}
