package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drumbeatlabs/creatormatch/internal/catalog"
	"github.com/drumbeatlabs/creatormatch/internal/completion"
	"github.com/drumbeatlabs/creatormatch/internal/config"
	"github.com/drumbeatlabs/creatormatch/internal/embedding"
	"github.com/drumbeatlabs/creatormatch/internal/httpapi"
	"github.com/drumbeatlabs/creatormatch/internal/logging"
	"github.com/drumbeatlabs/creatormatch/internal/orchestrator"
	"github.com/drumbeatlabs/creatormatch/internal/persistence"
	"github.com/drumbeatlabs/creatormatch/internal/vectorindex"
)

func newServeCmd() *cobra.Command {
	var addr string
	var catalogDBPath string
	var persistenceURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the creator matching HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, catalogDBPath, persistenceURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&catalogDBPath, "catalog-db", "", "path to a SQLite catalog database (empty: in-memory, no creators until seeded)")
	cmd.Flags().StringVar(&persistenceURL, "persistence-url", "", "base URL for the match-persistence backend (empty: persistence disabled)")

	return cmd
}

func runServe(ctx context.Context, addr, catalogDBPath, persistenceURL string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg.Level = slog.LevelDebug
		logCfg.WriteToStderr = true
	}
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer cleanup()
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source catalog.Source
	if catalogDBPath != "" {
		sqliteSource, err := catalog.OpenSQLiteSource(catalogDBPath)
		if err != nil {
			return fmt.Errorf("open catalog database: %w", err)
		}
		defer sqliteSource.Close()
		source = sqliteSource
	} else {
		source = catalog.StaticSource{}
	}

	cache := catalog.New(source, cfg.CatalogRefreshTTL, logger)
	if err := cache.Load(ctx); err != nil {
		logger.Warn("initial catalog load failed, starting with an empty catalog", slog.String("error", err.Error()))
	}
	go refreshCatalogPeriodically(ctx, cache, cfg.CatalogRefreshTTL)

	embedder, err := embedding.New(cfg)
	if err != nil {
		return fmt.Errorf("construct embedder: %w", err)
	}
	defer embedder.Close()

	vectorIdx := vectorindex.New(cfg)
	if err := vectorIdx.EnsureIndex(ctx, cfg.VectorIndexName, embedder.Dimensions()); err != nil {
		return fmt.Errorf("ensure vector index: %w", err)
	}
	defer vectorIdx.Close()

	completer := completion.New(cfg)
	defer completer.Close()

	var persister persistence.Port = persistence.NoopPort{}
	if persistenceURL != "" {
		persister = persistence.NewHTTPPort(persistence.HTTPPortConfig{BaseURL: persistenceURL})
	}

	orch := orchestrator.New(cfg, orchestrator.Dependencies{
		Catalog:     cache,
		Embedder:    embedder,
		VectorIndex: vectorIdx,
		Completer:   completer,
		Persister:   persister,
		Logger:      logger,
	})

	server := httpapi.NewServer(addr, orch, logger)
	return server.ListenAndServe(ctx)
}

func refreshCatalogPeriodically(ctx context.Context, cache *catalog.Cache, ttl time.Duration) {
	interval := ttl / 4
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cache.RefreshIfStale(ctx, now)
		}
	}
}
