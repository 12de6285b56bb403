package app

import (
	"math"
	"time"

	"soltracker/clients/notifier"
	"soltracker/clients/solanarpc"
)

// DetectSwapFromBalances classifies a snapshot-form transaction as a swap by
// diffing the wallet's per-mint balances before and after.
//
// Assets present only in the pre snapshot (fully liquidated accounts) are
// not considered; only mints still listed post-transaction produce deltas.
func DetectSwapFromBalances(wallet, signature string, ts time.Time, meta *solanarpc.TransactionMeta) *Trade {
	// Absent metadata is common for failed or not-yet-indexed transactions.
	if meta == nil {
		return nil
	}

	pre := balanceMap(meta.PreTokenBalances, wallet)
	post := balanceMap(meta.PostTokenBalances, wallet)

	type delta struct {
		mint  string
		value float64
	}
	var deltas []delta
	for mint, postAmt := range post {
		d := postAmt - pre[mint]
		if d == 0 {
			continue
		}
		deltas = append(deltas, delta{mint: mint, value: d})
	}

	// A swap moves at least two assets; anything less is a plain transfer,
	// a fee-only transaction, or a no-op.
	if len(deltas) < 2 {
		return nil
	}

	out := deltas[0]
	in := deltas[0]
	for _, d := range deltas[1:] {
		if d.value > out.value || (d.value == out.value && d.mint < out.mint) {
			out = d
		}
		if d.value < in.value || (d.value == in.value && d.mint < in.mint) {
			in = d
		}
	}

	trade := &Trade{
		Wallet:    wallet,
		TokenIn:   in.mint,
		AmountIn:  math.Abs(in.value),
		TokenOut:  out.mint,
		AmountOut: out.value,
		Signature: signature,
		Timestamp: ts,
	}
	if trade.TokenIn == NativeMint {
		trade.Direction = notifier.DirectionBuy
		trade.SolAmount = trade.AmountIn
	} else if trade.TokenOut == NativeMint {
		trade.Direction = notifier.DirectionSell
		trade.SolAmount = trade.AmountOut
	}

	if !trade.Valid() {
		return nil
	}
	return trade
}

// balanceMap folds snapshot entries owned by the wallet into mint -> amount.
// Duplicate mints collapse last-seen-wins; a null uiAmount reads as 0.
func balanceMap(balances []solanarpc.TokenBalance, wallet string) map[string]float64 {
	m := make(map[string]float64, len(balances))
	for _, b := range balances {
		if b.Owner != wallet {
			continue
		}
		var amt float64
		if b.UITokenAmount.UIAmount != nil {
			amt = *b.UITokenAmount.UIAmount
		}
		m[b.Mint] = amt
	}
	return m
}
