package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"soltracker/clients/helius"
	"soltracker/clients/solanarpc"
	"soltracker/clients/solanaws"
)

// TxRecord is one transaction touching a watched wallet, in whichever
// shape the backing source provides. Exactly one of Meta or Transfer is set.
type TxRecord struct {
	Signature string
	Timestamp time.Time
	Meta      *solanarpc.TransactionMeta
	Transfer  *helius.Transaction
}

// TxSource yields transaction records for a single wallet. Next blocks
// until a record is available, the context is cancelled, or the source
// fails. Implementations surface rate limiting via the underlying
// client's sentinel so callers can back off.
type TxSource interface {
	Next(ctx context.Context) (*TxRecord, error)
	Close() error
}

// subscriptionSource pairs a websocket log subscription with RPC fetches:
// each pushed signature is resolved to a full transaction before being
// returned. A dead connection is surfaced once as an error and redialed
// on the following Next call, so the monitor's retry loop doubles as the
// reconnect driver.
type subscriptionSource struct {
	logger *zap.Logger
	wallet string
	ws     *solanaws.SolanaWSClient
	rpc    *solanarpc.SolanaRPCClient

	connected bool
	// pendingSig holds a pushed signature whose lookup failed, so the
	// transaction is resolved again after backoff instead of being lost.
	pendingSig string
}

// NewSubscriptionSource connects the websocket client for the wallet and
// returns a push-driven source.
func NewSubscriptionSource(ctx context.Context, logger *zap.Logger, wallet string, ws *solanaws.SolanaWSClient, rpc *solanarpc.SolanaRPCClient) (TxSource, error) {
	if err := ws.Connect(ctx, wallet); err != nil {
		return nil, fmt.Errorf("connecting log subscription: %w", err)
	}
	return &subscriptionSource{
		logger:    logger,
		wallet:    wallet,
		ws:        ws,
		rpc:       rpc,
		connected: true,
	}, nil
}

func (s *subscriptionSource) Next(ctx context.Context) (*TxRecord, error) {
	for {
		if !s.connected {
			if err := s.ws.Connect(ctx, s.wallet); err != nil {
				return nil, fmt.Errorf("reconnecting log subscription: %w", err)
			}
			s.connected = true
			s.logger.Info("log subscription reconnected")
		}

		sig := s.pendingSig
		if sig == "" {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case err := <-s.ws.Errors():
				// Make sure the old connection is fully torn down
				// before the next call tries to dial again.
				s.connected = false
				_ = s.ws.Close()
				return nil, fmt.Errorf("log subscription: %w", err)
			case sig = <-s.ws.Signatures():
			}
		}

		tx, err := s.rpc.GetTransaction(ctx, sig)
		if err != nil {
			s.pendingSig = sig
			return nil, err
		}
		s.pendingSig = ""

		if tx == nil || tx.Meta == nil {
			// Not indexed yet or vote-only; nothing to analyze.
			s.logger.Debug("transaction not available, skipping",
				zap.String("signature", sig))
			continue
		}
		ts := time.Now().UTC()
		if tx.BlockTime != nil {
			ts = time.Unix(*tx.BlockTime, 0).UTC()
		}
		return &TxRecord{
			Signature: sig,
			Timestamp: ts,
			Meta:      tx.Meta,
		}, nil
	}
}

func (s *subscriptionSource) Close() error {
	return s.ws.Close()
}

// HistoryClient fetches enhanced transaction history pages.
type HistoryClient interface {
	GetTransactions(ctx context.Context, wallet, before string, limit int) ([]helius.Transaction, error)
}

// pollSource periodically fetches recent enriched transactions for the
// wallet and yields only those it has not yielded before, oldest first.
// The cursor and yielded set are adapter-local.
type pollSource struct {
	logger   *zap.Logger
	wallet   string
	client   HistoryClient
	limit    int
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	primed  bool
	yielded map[string]struct{}
	pending []helius.Transaction
}

// NewPollSource returns a poll-driven source over the enriched
// transaction API.
func NewPollSource(logger *zap.Logger, wallet string, client HistoryClient, limit int, interval time.Duration) TxSource {
	return &pollSource{
		logger:   logger,
		wallet:   wallet,
		client:   client,
		limit:    limit,
		interval: interval,
		sleep:    sleepCtx,
		yielded:  make(map[string]struct{}),
	}
}

func (p *pollSource) Next(ctx context.Context) (*TxRecord, error) {
	for {
		if len(p.pending) > 0 {
			tx := p.pending[0]
			p.pending = p.pending[1:]
			p.yielded[tx.Signature] = struct{}{}
			return &TxRecord{
				Signature: tx.Signature,
				Timestamp: time.Unix(tx.Timestamp, 0).UTC(),
				Transfer:  &tx,
			}, nil
		}

		batch, err := p.fetchNew(ctx)
		if err != nil {
			return nil, err
		}
		// Batches arrive newest first. Reverse so downstream sees
		// chronological order.
		for i := len(batch) - 1; i >= 0; i-- {
			p.pending = append(p.pending, batch[i])
		}

		if len(p.pending) > 0 {
			continue
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, err
		}
	}
}

// fetchNew pages backwards with the before cursor until it finds a
// signature it has already returned or a short page, collecting every
// unseen transaction along the way (newest first).
func (p *pollSource) fetchNew(ctx context.Context) ([]helius.Transaction, error) {
	var (
		collected []helius.Transaction
		before    string
	)
	for {
		txs, err := p.client.GetTransactions(ctx, p.wallet, before, p.limit)
		if err != nil {
			return nil, err
		}
		if !p.primed {
			// First cycle takes a single page of recent history
			// rather than walking the whole chain backwards.
			p.primed = true
			return txs, nil
		}
		if len(txs) == 0 {
			return collected, nil
		}
		for _, tx := range txs {
			if _, ok := p.yielded[tx.Signature]; ok {
				return collected, nil
			}
			collected = append(collected, tx)
		}
		if len(txs) < p.limit {
			return collected, nil
		}
		before = txs[len(txs)-1].Signature
		p.logger.Debug("following history cursor",
			zap.String("before", before),
			zap.Int("collected", len(collected)))
	}
}

func (p *pollSource) Close() error {
	return nil
}

// sleepCtx sleeps for d or returns early with the context error.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
