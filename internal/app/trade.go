package app

import (
	"time"

	"soltracker/clients/notifier"
)

// NativeMint is the wrapped-SOL mint address. Transfer-form records report
// the native leg of a swap under this mint.
const NativeMint = "So11111111111111111111111111111111111111112"

// Trade is the canonical normalized swap record produced by either detector.
type Trade struct {
	Wallet    string
	TokenIn   string  // asset the wallet gave up
	AmountIn  float64 // absolute value, > 0
	TokenOut  string  // asset the wallet received
	AmountOut float64 // > 0
	Direction notifier.Direction
	Venue     string
	SolAmount float64 // native leg size, 0 when unknown
	Signature string
	Timestamp time.Time
}

// Valid reports whether the trade satisfies the normalized-form invariants.
func (t *Trade) Valid() bool {
	return t != nil &&
		t.AmountIn > 0 &&
		t.AmountOut > 0 &&
		t.TokenIn != t.TokenOut
}

// Alert converts the trade into the notification payload.
func (t *Trade) Alert() notifier.SwapAlert {
	venue := t.Venue
	if venue == "" {
		venue = "UNKNOWN"
	}
	return notifier.SwapAlert{
		Wallet:    t.Wallet,
		TokenIn:   t.TokenIn,
		AmountIn:  t.AmountIn,
		TokenOut:  t.TokenOut,
		AmountOut: t.AmountOut,
		Direction: t.Direction,
		Venue:     venue,
		SolAmount: t.SolAmount,
		Signature: t.Signature,
		Timestamp: t.Timestamp,
	}
}
