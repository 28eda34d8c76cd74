package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeypas/portfolio-final/internal/config"
	"github.com/codeypas/portfolio-final/internal/database"
	"github.com/codeypas/portfolio-final/internal/queue"
	"github.com/codeypas/portfolio-final/internal/repository"
	"github.com/codeypas/portfolio-final/internal/router"
	"github.com/codeypas/portfolio-final/internal/service"
)

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	rdb := config.NewRedisClient(ctx) // nil when disabled or unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartContactConsumer(ctx, cfg.RabbitURL, cfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("contact consumer stopped", "err", err)
			}
		}()
	}

	// Broker round trips run off the request path.
	pub := service.NewAsyncPublisher(service.NewQueuePublisher(cfg.RabbitURL), 5*time.Second)

	e := router.New(router.Options{
		Config:    cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Stores:    stores,
		Redis:     rdb,
		Publisher: pub,
	})

	addr := ":" + cfg.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
	pub.Close()
	if err := stores.Close(shutdownCtx); err != nil {
		slog.Error("closing store", "err", err)
	}
}

// setupLogger installs the default slog logger: human readable text while
// developing, JSON in production.
func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Production() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func openStores(ctx context.Context, cfg config.Config) (*repository.Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repository.NewMySQLStores(db), nil

	case config.DriverMongo:
		mdb, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		stores, err := repository.NewMongoStores(ctx, mdb)
		if err != nil {
			_ = mdb.Client().Disconnect(context.Background())
			return nil, err
		}
		return stores, nil

	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		return repository.NewMemoryStores(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
