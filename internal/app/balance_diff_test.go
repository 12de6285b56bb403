package app

import (
	"testing"
	"time"

	"soltracker/clients/notifier"
	"soltracker/clients/solanarpc"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func floatPtr(v float64) *float64 {
	return &v
}

func balances(wallet string, amounts map[string]float64) []solanarpc.TokenBalance {
	var out []solanarpc.TokenBalance
	for mint, amt := range amounts {
		out = append(out, solanarpc.TokenBalance{
			Mint:          mint,
			Owner:         wallet,
			UITokenAmount: solanarpc.UITokenAmount{UIAmount: floatPtr(amt)},
		})
	}
	return out
}

func TestDetectSwapFromBalances_BasicSwap(t *testing.T) {
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances:  balances(testWallet, map[string]float64{"mintA": 2, "mintB": 5}),
		PostTokenBalances: balances(testWallet, map[string]float64{"mintA": 5, "mintB": 2}),
	}

	trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta)
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.TokenOut != "mintA" || trade.AmountOut != 3 {
		t.Errorf("expected received 3 mintA, got %v %s", trade.AmountOut, trade.TokenOut)
	}
	if trade.TokenIn != "mintB" || trade.AmountIn != 3 {
		t.Errorf("expected sent 3 mintB, got %v %s", trade.AmountIn, trade.TokenIn)
	}
}

func TestDetectSwapFromBalances_TieBreaksLexicographically(t *testing.T) {
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances: balances(testWallet, map[string]float64{"mintA": 0, "mintC": 0, "mintB": 6}),
		PostTokenBalances: balances(testWallet, map[string]float64{
			"mintA": 3,
			"mintC": 3,
			"mintB": 0,
		}),
	}

	trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta)
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.TokenOut != "mintA" {
		t.Errorf("expected tie to pick mintA, got %s", trade.TokenOut)
	}
	if trade.TokenIn != "mintB" {
		t.Errorf("expected sent token mintB, got %s", trade.TokenIn)
	}
}

func TestDetectSwapFromBalances_SingleDelta(t *testing.T) {
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances:  balances(testWallet, map[string]float64{"mintA": 1}),
		PostTokenBalances: balances(testWallet, map[string]float64{"mintA": 4}),
	}

	if trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta); trade != nil {
		t.Errorf("expected nil for a plain transfer, got %+v", trade)
	}
}

func TestDetectSwapFromBalances_NilMeta(t *testing.T) {
	if trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), nil); trade != nil {
		t.Errorf("expected nil for missing metadata, got %+v", trade)
	}
}

func TestDetectSwapFromBalances_IgnoresOtherOwners(t *testing.T) {
	other := "BvzKvn6nUUAYtKu2pH3h5SbUkUNcRPQawg4bURBiojJx"
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances: append(
			balances(testWallet, map[string]float64{"mintA": 2, "mintB": 5}),
			balances(other, map[string]float64{"mintA": 100})...,
		),
		PostTokenBalances: append(
			balances(testWallet, map[string]float64{"mintA": 5, "mintB": 2}),
			balances(other, map[string]float64{"mintA": 50})...,
		),
	}

	trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta)
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.AmountOut != 3 {
		t.Errorf("other-owner balances leaked into the diff: %+v", trade)
	}
}

func TestDetectSwapFromBalances_NullUIAmountReadsAsZero(t *testing.T) {
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances: []solanarpc.TokenBalance{
			{Mint: "mintA", Owner: testWallet, UITokenAmount: solanarpc.UITokenAmount{UIAmount: nil}},
			{Mint: "mintB", Owner: testWallet, UITokenAmount: solanarpc.UITokenAmount{UIAmount: floatPtr(5)}},
		},
		PostTokenBalances: balances(testWallet, map[string]float64{"mintA": 3, "mintB": 2}),
	}

	trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta)
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.TokenOut != "mintA" || trade.AmountOut != 3 {
		t.Errorf("null uiAmount should read as zero, got %+v", trade)
	}
}

func TestDetectSwapFromBalances_NativeLegSetsDirection(t *testing.T) {
	meta := &solanarpc.TransactionMeta{
		PreTokenBalances:  balances(testWallet, map[string]float64{NativeMint: 10, "mintB": 0}),
		PostTokenBalances: balances(testWallet, map[string]float64{NativeMint: 7.5, "mintB": 100}),
	}

	trade := DetectSwapFromBalances(testWallet, "sig1", time.Now(), meta)
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.Direction != notifier.DirectionBuy {
		t.Errorf("expected BUY, got %s", trade.Direction)
	}
	if trade.SolAmount != 2.5 {
		t.Errorf("expected sol amount 2.5, got %v", trade.SolAmount)
	}
}
