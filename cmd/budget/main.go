package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/config"
	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/seed"
	"budget/internal/services"
	"budget/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:  applog.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting budget", applog.FieldDBPath, cfg.DBPath)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, applog.FieldDBPath, cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := core.SystemClock{}
	currentMonth := core.CurrentMonth(clock.Now())

	if cfg.Seed {
		seeded, err := seed.Run(ctx, store, currentMonth)
		if err != nil {
			logger.Error("Failed to seed categories", applog.FieldError, err, applog.FieldMonth, currentMonth.String())
			os.Exit(1)
		}
		if seeded {
			logger.WithComponent(applog.ComponentSeed).Info("Seeded default categories", applog.FieldMonth, currentMonth.String())
		}
	}

	months := services.NewMonthService(store, clock)
	dashboard := services.NewDashboardService(store, months, clock)

	snapshots, err := dashboard.Watch(ctx)
	if err != nil {
		logger.Error("Failed to start dashboard watch", applog.FieldError, err)
		os.Exit(1)
	}

	go func() {
		dashLog := logger.WithComponent(applog.ComponentDashboard)
		for snap := range snapshots {
			dashLog.Info("Dashboard updated",
				applog.FieldMonth, snap.Month.String(),
				"total_spent_cents", snap.TotalSpent.Cents,
				"total_budget_cents", snap.TotalBudget.Cents,
				"balance_cents", snap.CurrentBalance.Cents,
				"active_categories", len(snap.Active),
				"completed_categories", len(snap.Completed))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	logger.Info("Stopped")
}
