// Command postconfirmation is the Cognito post-confirmation Lambda. It creates
// the profile of a newly confirmed user.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/keystone/confirm"
	"github.com/jacentio/keystone/internal/config"
	"github.com/jacentio/keystone/store"
	"github.com/jacentio/keystone/trigger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	handler, err := newHandler(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(handler.HandlePostConfirmation)
}

func newHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*trigger.Handler, error) {
	client, err := cfg.DynamoDBClient(ctx)
	if err != nil {
		return nil, err
	}
	storeCfg, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.New(client, storeCfg)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	logger.Info("post-confirmation handler initialized",
		"table", storeCfg.TableName,
		"policy", policy.String(),
	)
	return trigger.NewHandler(confirm.NewService(s), logger, trigger.WithPolicy(policy)), nil
}
