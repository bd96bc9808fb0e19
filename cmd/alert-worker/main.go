package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/config"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/events"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/storage"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting alert-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	alertWorker := worker.NewAlertWorker(repo, cfg.MonthlyBudget, cfg.CategoryBudgets)
	if cfg.MonthlyBudget <= 0 && len(cfg.CategoryBudgets) == 0 {
		logger.Warn("No budget ceilings configured, worker will only log events")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = client.ConsumeRecordEvents(ctx, func(event *events.RecordEvent) error {
		return alertWorker.HandleRecordEvent(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
