package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/config"
	"pitchside/marketplace-backend/internal/offers"
)

// The cleanup worker sweeps abandoned questionnaire drafts for all
// users on a schedule. The login-time sweep only covers users who come
// back; this catches the ones who never do.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	cleaner := offers.NewCleaner(offers.NewRepository(db), cfg.Cleanup.StaleAfter, logger)

	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(cfg.Cleanup.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		removed := cleaner.SweepAll(ctx)
		logger.Info("scheduled draft sweep finished", zap.Int("removed", removed))
	})
	if err != nil {
		logger.Fatal("invalid cleanup cron spec",
			zap.String("spec", cfg.Cleanup.CronSpec),
			zap.Error(err))
	}

	scheduler.Start()
	logger.Info("cleanup worker started",
		zap.String("cron_spec", cfg.Cleanup.CronSpec),
		zap.Duration("stale_after", cfg.Cleanup.StaleAfter))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("cleanup worker shutting down")
	<-scheduler.Stop().Done()
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.json"
}
