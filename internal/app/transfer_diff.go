package app

import (
	"math"
	"time"

	"soltracker/clients/helius"
	"soltracker/clients/notifier"
)

// DetectSwapFromTransfers classifies a transfer-form transaction as a swap
// by netting the wallet's native-asset movement against a single non-native
// token transfer.
//
// Only the first non-native mint touching the wallet is tracked; a second
// token in the same transaction is ignored.
func DetectSwapFromTransfers(wallet string, tx *helius.Transaction) *Trade {
	if tx == nil || tx.Type != "SWAP" {
		return nil
	}

	var nativeDelta float64
	var tokenMint string
	var tokenAmount float64

	for _, tr := range tx.TokenTransfers {
		from := tr.FromUserAccount == wallet
		to := tr.ToUserAccount == wallet
		if !from && !to {
			continue
		}

		if tr.Mint == NativeMint {
			if to {
				nativeDelta += tr.TokenAmount
			}
			if from {
				nativeDelta -= tr.TokenAmount
			}
			continue
		}

		if tokenMint == "" {
			tokenMint = tr.Mint
			tokenAmount = tr.TokenAmount
		}
	}

	if nativeDelta == 0 || tokenMint == "" || tokenAmount <= 0 {
		return nil
	}

	ts := time.Unix(tx.Timestamp, 0).UTC()
	solAmount := math.Abs(nativeDelta)

	trade := &Trade{
		Wallet:    wallet,
		Venue:     tx.Source,
		SolAmount: solAmount,
		Signature: tx.Signature,
		Timestamp: ts,
	}

	if nativeDelta < 0 {
		// Paid native asset, received the token.
		trade.Direction = notifier.DirectionBuy
		trade.TokenIn = NativeMint
		trade.AmountIn = solAmount
		trade.TokenOut = tokenMint
		trade.AmountOut = tokenAmount
	} else {
		trade.Direction = notifier.DirectionSell
		trade.TokenIn = tokenMint
		trade.AmountIn = tokenAmount
		trade.TokenOut = NativeMint
		trade.AmountOut = solAmount
	}

	if !trade.Valid() {
		return nil
	}
	return trade
}
