package notifier

import (
	"time"
)

// Direction indicates which way a swap went from the wallet's perspective.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// SwapAlert contains all the data needed for a swap alert notification.
type SwapAlert struct {
	// Wallet info
	Wallet string

	// Swap details
	TokenIn   string  // asset the wallet gave up
	AmountIn  float64 // always positive
	TokenOut  string  // asset the wallet received
	AmountOut float64 // always positive
	Direction Direction
	Venue     string // DEX label from the source, "UNKNOWN" if absent

	// Native-asset leg (set by the transfer-form detector)
	SolAmount float64

	// Price enrichment (best-effort)
	PriceUSD float64
	HasPrice bool

	// Transaction metadata
	Signature string
	Timestamp time.Time
}

// Notifier is the interface for sending swap alerts to various channels.
type Notifier interface {
	// SendSwapAlert sends a swap alert notification.
	SendSwapAlert(alert SwapAlert)

	// SendStatus sends a plain status message (startup notice, rate-limit warning).
	SendStatus(message string)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier with the given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	// Filter out nil notifiers
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendSwapAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendSwapAlert(alert SwapAlert) {
	for _, n := range m.notifiers {
		n.SendSwapAlert(alert)
	}
}

// SendStatus sends the status message to all registered notifiers.
func (m *MultiNotifier) SendStatus(message string) {
	for _, n := range m.notifiers {
		n.SendStatus(message)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
