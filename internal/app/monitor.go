package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"soltracker/clients/helius"
	"soltracker/clients/notifier"
	"soltracker/clients/solanarpc"
	"soltracker/config"
)

// PriceClient provides a best-effort SOL/USD quote for alert enrichment.
type PriceClient interface {
	SolPriceUSD(ctx context.Context) (float64, error)
}

// Monitor watches one wallet: it consumes transaction records from its
// source, detects swaps, and pushes alerts. Each wallet runs its own
// Monitor so a stalled or rate-limited wallet never blocks the others.
type Monitor struct {
	logger   *zap.Logger
	cfg      *config.Config
	wallet   string
	source   TxSource
	seen     *SeenLedger
	notifier notifier.Notifier
	price    PriceClient

	// sleep is swappable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error

	// rateLimitNotified is set after the operator has been told about
	// the current rate-limit episode and cleared on the next success.
	rateLimitNotified bool
}

// NewMonitor builds a monitor for a single wallet.
func NewMonitor(logger *zap.Logger, cfg *config.Config, wallet string, source TxSource, seen *SeenLedger, n notifier.Notifier, price PriceClient) *Monitor {
	return &Monitor{
		logger:   logger.With(zap.String("wallet", notifier.ShortAddress(wallet))),
		cfg:      cfg,
		wallet:   wallet,
		source:   source,
		seen:     seen,
		notifier: n,
		price:    price,
		sleep:    sleepCtx,
	}
}

// Run consumes records until the context is cancelled. Transient errors
// are logged and retried after a short delay; rate limiting triggers a
// single operator notice and a long backoff. Only context cancellation
// ends the loop.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started")
	defer m.logger.Info("monitor stopped")

	for {
		record, err := m.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isRateLimited(err) {
				if err := m.handleRateLimit(ctx, err); err != nil {
					return err
				}
				continue
			}
			m.logger.Warn("source error, retrying", zap.Error(err))
			if err := m.sleep(ctx, m.cfg.Monitor.RetryDelay); err != nil {
				return err
			}
			continue
		}
		m.rateLimitNotified = false

		if err := m.processRecord(ctx, record); err != nil {
			m.logger.Warn("processing transaction failed",
				zap.String("signature", ShortID(record.Signature)),
				zap.Error(err))
		}
	}
}

func (m *Monitor) processRecord(ctx context.Context, record *TxRecord) error {
	if m.seen.Has(record.Signature) {
		return nil
	}
	// The signature counts as consumed from here on, even if delivery
	// fails, so a flaky sink cannot cause duplicate alerts.
	defer m.seen.Mark(record.Signature)

	trade := m.detect(record)
	if trade == nil {
		return nil
	}

	m.logger.Info("swap detected",
		zap.String("signature", ShortID(trade.Signature)),
		zap.String("direction", string(trade.Direction)),
		zap.String("venue", trade.Venue))

	alert := trade.Alert()
	if m.price != nil && alert.SolAmount > 0 {
		priceCtx, cancel := context.WithTimeout(ctx, m.cfg.Price.Timeout)
		solPrice, err := m.price.SolPriceUSD(priceCtx)
		cancel()
		if err != nil {
			m.logger.Debug("price lookup failed", zap.Error(err))
		} else {
			alert.PriceUSD = solPrice
			alert.HasPrice = true
		}
	}

	m.notifier.SendSwapAlert(alert)
	return nil
}

// detect routes the record to the analyzer matching its shape.
func (m *Monitor) detect(record *TxRecord) *Trade {
	switch {
	case record.Meta != nil:
		return DetectSwapFromBalances(m.wallet, record.Signature, record.Timestamp, record.Meta)
	case record.Transfer != nil:
		return DetectSwapFromTransfers(m.wallet, record.Transfer)
	default:
		return nil
	}
}

// handleRateLimit notifies the operator once per episode and backs off.
func (m *Monitor) handleRateLimit(ctx context.Context, cause error) error {
	if !m.rateLimitNotified {
		m.rateLimitNotified = true
		m.notifier.SendStatus(fmt.Sprintf("⚠️ Rate limited while monitoring %s, backing off for %s",
			notifier.ShortAddress(m.wallet), m.cfg.Monitor.RateLimitBackoff))
	}
	m.logger.Warn("rate limited, backing off",
		zap.Duration("backoff", m.cfg.Monitor.RateLimitBackoff),
		zap.Error(cause))
	return m.sleep(ctx, m.cfg.Monitor.RateLimitBackoff)
}

func isRateLimited(err error) bool {
	return errors.Is(err, solanarpc.ErrRateLimited) || errors.Is(err, helius.ErrRateLimited)
}
