package monitor

import (
	"fmt"
	"strings"
	"time"

	"polymarket-whale-monitor/internal/classifier"
	"polymarket-whale-monitor/internal/wallet"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.English)

// FormatAlert renders a classified trade as the alert text delivered to
// the notification sink.
func FormatAlert(d classifier.Decision, now time.Time) string {
	var headlines []string
	for _, tier := range d.Tiers {
		switch tier {
		case classifier.TierNewAccountWhale:
			headlines = append(headlines, usdPrinter.Sprintf("WHALE ALERT: New user $%.0f bet!", d.ValueUSD))
		case classifier.TierWhale:
			headlines = append(headlines, usdPrinter.Sprintf("WHALE: $%.0f big bet", d.ValueUSD))
		}
	}

	title := d.Trade.Title
	if title == "" {
		title = "Unknown Market"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.Join(headlines, " | "))
	fmt.Fprintf(&b, "Wallet: %s%s\n", d.Trade.ProxyWallet, ageNote(d.Age, now))
	fmt.Fprintf(&b, "Market: %s\n", title)
	fmt.Fprintf(&b, "Side: %s %s @ $%s\n", d.Trade.Side, d.Trade.Size, d.Trade.Price)
	if d.Trade.TransactionHash != "" {
		fmt.Fprintf(&b, "Tx: https://polygonscan.com/tx/%s\n", d.Trade.TransactionHash)
	}
	fmt.Fprintf(&b, "Wallet Explorer: https://polygonscan.com/address/%s\n", d.Trade.ProxyWallet)

	return b.String()
}

// ageNote annotates the wallet line with how old the account is.
func ageNote(age wallet.Age, now time.Time) string {
	if age.State != wallet.AgeKnown {
		return " (brand new)"
	}
	return fmt.Sprintf(" (age: %.1fd)", age.Days(now))
}
