// Package main runs the token scanner: the Telegram bot (long polling or
// webhook) and the HTTP API share one report pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-token-scanner/internal/api"
	"solana-token-scanner/internal/cache"
	"solana-token-scanner/internal/config"
	"solana-token-scanner/internal/enrich"
	"solana-token-scanner/internal/fetch"
	"solana-token-scanner/internal/logging"
	"solana-token-scanner/internal/market"
	"solana-token-scanner/internal/pipeline"
	"solana-token-scanner/internal/shyft"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/storage"
	chstore "solana-token-scanner/internal/storage/clickhouse"
	"solana-token-scanner/internal/storage/memory"
	"solana-token-scanner/internal/storage/migrations"
	pgstore "solana-token-scanner/internal/storage/postgres"
	"solana-token-scanner/internal/telegram"
)

// stores holds the storage implementations selected by configuration.
type stores struct {
	pools   storage.PoolStore
	events  storage.LookupEventStore
	checks  map[string]storage.HealthChecker
	cleanup func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Scanner stopped with error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	st, err := createStores(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer st.cleanup()

	// Response cache (optional)
	var orchOpts []fetch.Option
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis, cfg.Upstream.CacheTTL, logger)
		if err != nil {
			logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			orchOpts = append(orchOpts, fetch.WithCache(redisCache, cfg.Upstream.CacheTTL))
			st.checks["redis"] = redisCache
		}
	}

	// Upstream clients
	birdeye := market.NewBirdeyeClient(cfg.Upstream.BirdeyeAPIKey,
		market.WithBaseURL(cfg.Upstream.BirdeyeURL),
		market.WithTimeout(cfg.Upstream.HTTPTimeout),
	)
	dexscreener := market.NewDexScreenerClient(
		market.WithBaseURL(cfg.Upstream.DexScreenerURL),
		market.WithTimeout(cfg.Upstream.HTTPTimeout),
	)
	pools := shyft.NewClient(cfg.Upstream.ShyftAPIKey,
		shyft.WithEndpoint(cfg.Upstream.ShyftGraphQLURL),
		shyft.WithTimeout(cfg.Upstream.HTTPTimeout),
	)
	rpc := solana.NewHTTPClient(cfg.Solana.RPCEndpoint,
		solana.WithTimeout(cfg.Upstream.HTTPTimeout),
		solana.WithMaxRetries(cfg.Solana.MaxRetries),
		solana.WithRetryDelay(cfg.Solana.RetryDelay),
	)

	// Pipeline
	enricher := enrich.NewEnricher(pools, rpc, logger,
		enrich.WithPoolStore(st.pools, cfg.Storage.PoolTTL),
		enrich.WithTimeout(cfg.Upstream.EnrichTimeout),
	)
	reporter := pipeline.NewReporter(fetch.NewOrchestrator(birdeye, logger, orchOpts...), enricher, logger).
		WithMetadata(rpc).
		WithPairs(dexscreener).
		WithEventStore(st.events).
		WithTimeout(cfg.Upstream.ReportTimeout)

	// Telegram
	tg := telegram.NewClient(cfg.Telegram.Token,
		telegram.WithAPIURL(cfg.Telegram.APIURL),
		telegram.WithTimeout(cfg.Upstream.HTTPTimeout),
	)
	bot := telegram.NewBot(tg, reporter.ForSource("telegram"), logger,
		telegram.WithPollTimeout(cfg.Telegram.PollTimeout),
		telegram.WithWebhookSecret(cfg.Telegram.WebhookSecret),
	)

	var webhook http.Handler
	if cfg.WebhookMode() {
		if err := tg.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		webhook = bot.WebhookHandler()
		logger.Info("Telegram webhook registered")
	} else if err := tg.DeleteWebhook(ctx); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	// HTTP API
	router := api.NewRouter(api.RouterConfig{
		Health:  api.NewHealthHandler(rpc, st.checks, st.events),
		Reports: api.NewReportHandler(reporter.ForSource("api"), logger.Named("api")),
		Webhook: webhook,
		Logger:  logger.Named("http"),
	})
	server := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API server starting", zap.String("addr", cfg.API.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if !cfg.WebhookMode() {
		g.Go(func() error {
			logger.Info("Telegram long polling started")
			return bot.Poll(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
		waitWithTimeout(bot.Wait, cfg.API.ShutdownTimeout, logger)
		return nil
	})

	return g.Wait()
}

// createStores selects PostgreSQL and ClickHouse stores when their DSNs are
// set and in-memory stores otherwise. Migrations run on connect.
func createStores(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*stores, error) {
	st := &stores{
		pools:   memory.NewPoolStore(),
		events:  memory.NewLookupEventStore(),
		checks:  make(map[string]storage.HealthChecker),
		cleanup: func() {},
	}

	var closers []func()
	st.cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		closers = append(closers, pool.Close)

		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			st.cleanup()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("Applied PostgreSQL migrations", zap.Strings("files", applied))
		}
		st.pools = pgstore.NewPoolStore(pool)
		st.checks["postgres"] = pool
		logger.Info("Using PostgreSQL pool store")
	}

	if cfg.ClickHouseDSN != "" {
		conn, applied, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
		if err != nil {
			st.cleanup()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("Applied ClickHouse migrations", zap.Strings("files", applied))
		}
		closers = append(closers, func() { _ = conn.Close() })

		st.events = chstore.NewLookupEventStore(conn)
		st.checks["clickhouse"] = conn
		logger.Info("Using ClickHouse lookup event store")
	}

	return st, nil
}

func waitWithTimeout(wait func(), timeout time.Duration, logger *zap.Logger) {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn("Timed out waiting for in-flight updates")
	}
}
