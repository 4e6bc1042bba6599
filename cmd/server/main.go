// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/adcraft/internal/config"
	"github.com/unclebandit/adcraft/internal/controller"
	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/handler"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/queue"
	"github.com/unclebandit/adcraft/internal/repository"
	"github.com/unclebandit/adcraft/internal/service"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("❌ invalid configuration: ", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal("❌ failed to build logger: ", err)
	}
	defer logger.Sync()

	if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof)); err != nil {
		logger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("👋 server shut down")
}

func configPath() string {
	if p := os.Getenv("ADCRAFT_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	// Init storage
	driver, dsn := cfg.DSN()
	store, err := repository.OpenStorage(driver, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	events, closeEvents, err := queue.OpenEvents(cfg.Queue.AMQPURL, store.LogRepository(), logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	llm, err := generator.NewLLMFromSettings(ctx, cfg.LLMSettings())
	if err != nil {
		return err
	}
	client, err := generator.NewClient(llm)
	if err != nil {
		return err
	}

	app := service.NewApp(client, store.KV, events, logger)
	logger.Info("history restored", zap.Int("entries", app.History.Len()))

	limiter := controller.NewGenerateLimiter(cfg.Generate.RatePerMinute)
	pageHandler, err := handler.NewPageHandler(app, logger)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	pageHandler.Register(r, controller.RateLimit(limiter))
	controller.NewCampaignController(app, limiter, logger).Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("🚀 server running",
			zap.String("addr", srv.Addr),
			zap.String("provider", cfg.AI.Provider),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
