// cmd/storefinder/main.go
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

	"storefinder/internal/assemble"
	"storefinder/internal/catalog"
	"storefinder/internal/common/cache"
	"storefinder/internal/common/config"
	"storefinder/internal/common/logger"
	"storefinder/internal/common/observability"
	"storefinder/internal/inference"
	"storefinder/internal/query"
	"storefinder/internal/scoring"
	"storefinder/internal/server"
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
			delay *= 2
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

	zapLog.Info("Starting storefinder...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("storefinder")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load catalog (fatal on malformed data) ---
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Catalog loaded",
		zap.Int("stores", cat.Len()),
		zap.Int("categories", len(cat.Categories())),
		zap.Int("dimension", cat.Dimension()),
	)

	// --- Inference provider (lazy; backends constructed on first query) ---
	provider := inference.NewProvider(cfg.Inference, log)

	// --- Optional response cache with connection retry ---
	var opts []query.Option
	if cfg.Cache.Enabled {
		var redisClient *cache.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = cache.NewRedis(cfg.Cache.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			// The cache is an optimization; run without it.
			zapLog.Warn("redis unavailable, running without response cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			opts = append(opts, query.WithCache(redisClient, config.GetDuration(cfg.Cache.TTL)))
			zapLog.Info("Redis connected successfully")
		}
	}

	scorer := scoring.NewScorer(cat, provider, provider, log)
	assembler := assemble.NewAssembler(cfg.Ranking)
	svc := query.NewService(scorer, assembler, log, opts...)

	srv := server.New(cfg.Server, svc, obs, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("http server failed", zap.Error(err))
	case sig := <-stop:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
