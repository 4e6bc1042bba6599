package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/config"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/queue"
	"github.com/unclebandit/adcraft/internal/repository"
)

// The worker consumes copy_generated events from RabbitMQ and appends them
// to the generation_log table.
func main() {
	cfgPath := os.Getenv("ADCRAFT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("❌ invalid configuration: ", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal("❌ failed to build logger: ", err)
	}
	defer logger.Sync()

	if cfg.Queue.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required for the worker")
	}

	driver, dsn := cfg.DSN()
	if driver == "" {
		logger.Fatal("the worker needs sqlite or postgres storage for the generation log")
	}
	store, err := repository.OpenStorage(driver, dsn)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.Close()

	// Connect to RabbitMQ
	q, err := queue.DialAMQP(cfg.Queue.AMQPURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	if err := startWorker(q, store.LogRepository(), logger); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("👷 worker running, waiting for messages...", zap.String("queue", queue.TopicCopyGenerated))
	<-ctx.Done()
	logger.Info("worker stopping")
}

func startWorker(q queue.Queue, logs repository.GenerationLogRepositoryInterface, logger *zap.Logger) error {
	if logs == nil {
		return errors.New("generation log repository is required")
	}
	return queue.StartGenerationLogSubscriber(q, logs, logger)
}
