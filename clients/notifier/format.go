package notifier

import (
	"fmt"
	"strconv"
	"strings"
)

const solscanTxURL = "https://solscan.io/tx/%s"

// FormatSwapAlert renders a swap alert as a Markdown message. The output is
// deterministic for identical input: only fields carried on the alert are
// used, never the wall clock.
func FormatSwapAlert(alert SwapAlert) string {
	var sb strings.Builder

	title := "🔄 Swap Detected"
	switch alert.Direction {
	case DirectionBuy:
		title = "🟢 Token Buy"
	case DirectionSell:
		title = "🔴 Token Sell"
	}
	sb.WriteString(fmt.Sprintf("*%s*\n\n", title))

	sb.WriteString(fmt.Sprintf("*Wallet:* `%s`\n", ShortAddress(alert.Wallet)))

	venue := alert.Venue
	if venue == "" {
		venue = "UNKNOWN"
	}
	sb.WriteString(fmt.Sprintf("*Venue:* %s\n\n", venue))

	sb.WriteString(fmt.Sprintf("*Sent:* %s %s\n", formatAmount(alert.AmountIn), ShortAddress(alert.TokenIn)))
	sb.WriteString(fmt.Sprintf("*Received:* %s %s\n", formatAmount(alert.AmountOut), ShortAddress(alert.TokenOut)))

	if alert.SolAmount > 0 {
		if alert.HasPrice {
			sb.WriteString(fmt.Sprintf("*SOL Moved:* %s (~$%.2f)\n",
				formatAmount(alert.SolAmount), alert.SolAmount*alert.PriceUSD))
		} else {
			sb.WriteString(fmt.Sprintf("*SOL Moved:* %s (price unavailable)\n", formatAmount(alert.SolAmount)))
		}
	}

	if alert.Signature != "" {
		sb.WriteString(fmt.Sprintf("\n[View on Solscan](%s)\n", fmt.Sprintf(solscanTxURL, alert.Signature)))
	}

	if !alert.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("_%s_", alert.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")))
	}

	return sb.String()
}

// FormatStartup renders the one-shot startup notice listing watched wallets.
func FormatStartup(wallets []string, startTime string) string {
	var sb strings.Builder
	sb.WriteString("*🚀 Wallet tracker started*\n\n")
	sb.WriteString("*Watching:*\n")
	for _, w := range wallets {
		sb.WriteString(fmt.Sprintf("• `%s`\n", ShortAddress(w)))
	}
	sb.WriteString(fmt.Sprintf("\n_started %s_", startTime))
	return sb.String()
}

// ShortAddress truncates long base58 identifiers for display.
func ShortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-6:]
}

// formatAmount trims trailing zeros so small token amounts stay readable.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
