// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	assembleresult "trade-intel/internal/agents/assemble-result"
	parsequery "trade-intel/internal/agents/parse-query"
	selectstrategy "trade-intel/internal/agents/select-strategy"
	"trade-intel/internal/common/config"
	"trade-intel/internal/common/database"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/common/observability"
	"trade-intel/internal/export"
	"trade-intel/internal/notify"
	"trade-intel/internal/server"
	"trade-intel/internal/store"
	"trade-intel/pkg/vocabulary"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting trade intelligence service",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Vocabulary tables ---
	voc := vocabulary.Default()
	if cfg.Vocabulary.Path != "" {
		voc, err = vocabulary.Load(cfg.Vocabulary.Path)
		if err != nil {
			zapLog.Fatal("vocabulary load failed",
				zap.String("path", cfg.Vocabulary.Path),
				zap.Error(err),
			)
		}
	}

	// --- Catalog backend: postgres > elasticsearch > in-memory ---
	var catalog store.Catalog = store.NewMemoryCatalog(voc)

	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return pg.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres init failed", zap.Error(err))
		}
		defer pg.Close()
		catalog = store.NewPostgresCatalog(pg.GetDB(), log)
		zapLog.Info("catalog backend: postgres")
	} else if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := es.Ping(); err != nil {
			zapLog.Warn("elasticsearch unreachable at startup", zap.Error(err))
		}
		catalog = store.NewElasticsearchCatalog(es.Client, cfg.Database.Elasticsearch.Index, log)
		zapLog.Info("catalog backend: elasticsearch",
			zap.String("index", cfg.Database.Elasticsearch.Index))
	} else {
		zapLog.Info("catalog backend: in-memory vocabulary")
	}

	// --- Result cache ---
	var cache *store.ResultCache
	if cfg.Database.Redis.Enabled && cfg.Cache.Enabled {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx); err != nil {
			zapLog.Warn("redis unreachable at startup, cache degraded", zap.Error(err))
		}
		cancel()

		cache = store.NewResultCache(
			redisClient.GetClient(),
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			log,
		)
	}

	// --- Notifier ---
	var notifier *notify.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifier, err = notify.New(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("notifier init failed", zap.Error(err))
		}
	}

	// --- Export writer ---
	writer, err := export.NewWriter(cfg.Export.Dir, log)
	if err != nil {
		zapLog.Fatal("export writer init failed", zap.Error(err))
	}

	// --- Agent pipeline ---
	parser := parsequery.NewHandler(parsequery.LoadConfig(), voc, log)
	selector := selectstrategy.NewHandler(selectstrategy.LoadConfig(), voc, log)
	assembler := assembleresult.NewHandler(assembleresult.LoadConfig(), catalog, writer, voc, log)

	srv := server.New(server.Options{
		Config:    *cfg,
		Logger:    log,
		Parser:    parser,
		Selector:  selector,
		Assembler: assembler,
		Writer:    writer,
		Cache:     cache,
		Notifier:  notifier,
		Obs:       obs,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("http server failed", zap.Error(err))
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}
