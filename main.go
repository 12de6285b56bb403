package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	clts "soltracker/clients"
	"soltracker/clients/solanaws"
	"soltracker/config"
	"soltracker/internal/app"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load config from environment variables
	cfg := config.Load()
	logger.Info("starting tracker",
		zap.Int("wallets", len(cfg.Wallets)),
		zap.String("mode", cfg.Mode))

	if result := cfg.Validate(); !result.Valid {
		for _, e := range result.Errors {
			logger.Error("invalid configuration",
				zap.String("field", e.Field),
				zap.String("message", e.Message))
		}
		logger.Fatal("configuration validation failed")
	}

	// Initialize clients
	logger.Info("instantiating clients")
	clients := clts.NewClients(logger, cfg)

	newSource := func(ctx context.Context, wallet string) (app.TxSource, error) {
		if cfg.Mode == config.ModePoll {
			return app.NewPollSource(logger, wallet, clients.Helius,
				cfg.Monitor.FetchLimit, cfg.Monitor.PollInterval), nil
		}
		ws := solanaws.NewSolanaWSClient(logger, cfg.Solana.WSURL)
		return app.NewSubscriptionSource(ctx, logger, wallet, ws, clients.SolanaRPC)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	runner := app.NewRunner(logger, cfg, clients.Notifier, clients.CoinGecko, newSource)
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("runner failed", zap.Error(err))
	}

	if err := clients.Notifier.Close(); err != nil {
		logger.Warn("closing notifiers", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
