package monitor

import (
	"testing"
	"time"

	"polymarket-whale-monitor/internal/classifier"
	"polymarket-whale-monitor/internal/polymarket"
	"polymarket-whale-monitor/internal/wallet"

	"github.com/stretchr/testify/assert"
)

func TestFormatAlertBrandNewWallet(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	d := classifier.Decision{
		Trade: polymarket.TradeRecord{
			ProxyWallet:     "0xwallet",
			Side:            polymarket.OrderSideBuy,
			Size:            "1000",
			Price:           "0.08",
			Title:           "Will it rain tomorrow?",
			TransactionHash: "0xdeadbeef",
		},
		ValueUSD: 12500,
		Age:      wallet.Age{State: wallet.AgeNoHistory},
		Tiers:    []string{classifier.TierNewAccountWhale, classifier.TierWhale},
	}

	text := FormatAlert(d, now)

	assert.Contains(t, text, "WHALE ALERT: New user $12,500 bet!")
	assert.Contains(t, text, "WHALE: $12,500 big bet")
	assert.Contains(t, text, "Wallet: 0xwallet (brand new)")
	assert.Contains(t, text, "Market: Will it rain tomorrow?")
	assert.Contains(t, text, "Side: BUY 1000 @ $0.08")
	assert.Contains(t, text, "Tx: https://polygonscan.com/tx/0xdeadbeef")
	assert.Contains(t, text, "Wallet Explorer: https://polygonscan.com/address/0xwallet")
}

func TestFormatAlertKnownAgeAndMissingFields(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	firstTrade := now.Add(-36 * time.Hour).Unix()

	d := classifier.Decision{
		Trade: polymarket.TradeRecord{
			ProxyWallet: "0xwallet",
			Side:        polymarket.OrderSideSell,
			Size:        "500",
			Price:       "0.5",
			// no title, no transaction hash
		},
		ValueUSD: 25000,
		Age:      wallet.Age{State: wallet.AgeKnown, FirstTradeTS: firstTrade},
		Tiers:    []string{classifier.TierWhale},
	}

	text := FormatAlert(d, now)

	assert.Contains(t, text, "(age: 1.5d)")
	assert.Contains(t, text, "Market: Unknown Market")
	assert.NotContains(t, text, "Tx:", "no tx line without a transaction hash")
}
