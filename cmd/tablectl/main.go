// Command tablectl creates the identity table and its secondary indexes if
// they do not exist, then waits for the table to become active. It reads the
// same environment as the Lambda, plus a .env file when present.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jacentio/keystone/internal/config"
	"github.com/jacentio/keystone/store"
)

func main() {
	wait := flag.Duration("wait", 2*time.Minute, "maximum time to wait for the table to become active")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	if err := run(context.Background(), cfg, logger, *wait); err != nil {
		logger.Error("table setup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, wait time.Duration) error {
	client, err := cfg.DynamoDBClient(ctx)
	if err != nil {
		return err
	}
	storeCfg, err := cfg.StoreConfig()
	if err != nil {
		return err
	}
	s, err := store.New(client, storeCfg)
	if err != nil {
		return err
	}

	if err := s.EnsureTable(ctx); err != nil {
		return err
	}
	if err := s.WaitForTable(ctx, wait); err != nil {
		return err
	}

	logger.Info("table ready",
		"table", storeCfg.TableName,
		"emailIndex", storeCfg.EmailIndex,
		"statusIndex", storeCfg.StatusIndex,
	)
	return nil
}
