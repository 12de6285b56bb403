package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"soltracker/clients/notifier"
	"soltracker/config"
)

// SourceFactory builds a transaction source for one wallet.
type SourceFactory func(ctx context.Context, wallet string) (TxSource, error)

// Runner owns the per-wallet monitors. Each wallet gets its own source,
// dedup ledger, and goroutine; the runner only ties their lifetimes to
// the parent context.
type Runner struct {
	logger    *zap.Logger
	cfg       *config.Config
	notifier  notifier.Notifier
	price     PriceClient
	newSource SourceFactory
}

// NewRunner creates a runner over the configured wallets.
func NewRunner(logger *zap.Logger, cfg *config.Config, n notifier.Notifier, price PriceClient, newSource SourceFactory) *Runner {
	return &Runner{
		logger:    logger,
		cfg:       cfg,
		notifier:  n,
		price:     price,
		newSource: newSource,
	}
}

// Run announces startup, launches one monitor per wallet, and blocks
// until the context is cancelled and every monitor has returned. A
// wallet whose source cannot be built is logged and skipped; the
// remaining wallets still run.
func (r *Runner) Run(ctx context.Context) error {
	r.notifier.SendStatus(notifier.FormatStartup(r.cfg.Wallets,
		time.Now().UTC().Format("2006-01-02 15:04:05 UTC")))

	var wg sync.WaitGroup
	for _, wallet := range r.cfg.Wallets {
		source, err := r.newSource(ctx, wallet)
		if err != nil {
			r.logger.Error("failed to start source for wallet, skipping",
				zap.String("wallet", notifier.ShortAddress(wallet)),
				zap.Error(err))
			continue
		}

		seen := NewSeenLedger(r.cfg.Monitor.SeenCapacity)
		monitor := NewMonitor(r.logger, r.cfg, wallet, source, seen, r.notifier, r.price)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if err := source.Close(); err != nil {
					r.logger.Warn("closing source", zap.Error(err))
				}
			}()
			if err := monitor.Run(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("monitor exited", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	r.logger.Info("all monitors stopped")
	return ctx.Err()
}
