// Package classifier decides which trades in a batch are alert-worthy,
// deduplicating against the persistent store.
package classifier

import (
	"context"
	"strings"
	"time"

	"polymarket-whale-monitor/internal/config"
	"polymarket-whale-monitor/internal/polymarket"
	"polymarket-whale-monitor/internal/wallet"

	"go.uber.org/zap"
)

// Alert tiers. A trade can carry more than one.
const (
	TierWhale           = "WHALE"
	TierNewAccountWhale = "NEW_ACCOUNT_WHALE"
)

// SeenStore is the subset of the persistent store the classifier needs.
type SeenStore interface {
	HasSeen(tradeKey string) (bool, error)
	MarkSeen(tradeKey string, seenAt int64) error
}

// AgeResolver resolves a wallet's age, see the wallet package.
type AgeResolver interface {
	Resolve(ctx context.Context, wallet string, now time.Time) (wallet.Age, error)
}

// Decision is the classification outcome for a single trade.
type Decision struct {
	Trade      polymarket.TradeRecord
	TradeKey   string
	ValueUSD   float64
	Age        wallet.Age
	NewAccount bool
	Tiers      []string
}

// Alert reports whether the trade qualified for any alert tier.
func (d Decision) Alert() bool {
	return len(d.Tiers) > 0
}

// Classifier applies value, account-age and keyword thresholds to trade
// batches.
type Classifier struct {
	logger     *zap.Logger
	thresholds config.Thresholds
	filters    config.Filters
	store      SeenStore
	resolver   AgeResolver
}

// New creates a Classifier.
func New(logger *zap.Logger, thresholds config.Thresholds, filters config.Filters, store SeenStore, resolver AgeResolver) *Classifier {
	return &Classifier{
		logger:     logger,
		thresholds: thresholds,
		filters:    filters,
		store:      store,
		resolver:   resolver,
	}
}

// Classify processes a batch in input order and returns a decision for
// every trade not previously seen. Trades that fail the keyword filter or
// carry no wallet are still marked seen, so they are never reprocessed,
// but produce no decision. Every returned error is a store failure and
// aborts the run; malformed trades and wallet lookup failures do not.
func (c *Classifier) Classify(ctx context.Context, batch []polymarket.TradeRecord, now time.Time) ([]Decision, error) {
	decisions := make([]Decision, 0, len(batch))

	for _, trade := range batch {
		key := trade.Key()

		seen, err := c.store.HasSeen(key)
		if err != nil {
			return decisions, err
		}
		if seen {
			continue
		}

		seenAt := trade.Timestamp
		if seenAt == 0 {
			seenAt = now.Unix()
		}

		if trade.ProxyWallet == "" || !c.matchesKeywords(trade) {
			c.logger.Debug("Trade filtered, marking seen without alert",
				zap.String("trade_key", key),
				zap.String("market", trade.Title),
			)
			if err := c.store.MarkSeen(key, seenAt); err != nil {
				return decisions, err
			}
			continue
		}

		value := ParseFloatOr(trade.UsdcSize.String(), 0)
		if value == 0 {
			value = ParseFloatOr(trade.Size.String(), 0) * ParseFloatOr(trade.Price.String(), 0)
		}

		age, err := c.resolver.Resolve(ctx, trade.ProxyWallet, now)
		if err != nil {
			return decisions, err
		}

		newAccount := age.State != wallet.AgeKnown || age.Days(now) < c.thresholds.AccountAgeDays

		var tiers []string
		if value > c.thresholds.NewAccountValueUSD && newAccount {
			tiers = append(tiers, TierNewAccountWhale)
		}
		if value > c.thresholds.BigTradeUSD {
			tiers = append(tiers, TierWhale)
		}

		if err := c.store.MarkSeen(key, seenAt); err != nil {
			return decisions, err
		}

		decisions = append(decisions, Decision{
			Trade:      trade,
			TradeKey:   key,
			ValueUSD:   value,
			Age:        age,
			NewAccount: newAccount,
			Tiers:      tiers,
		})
	}

	return decisions, nil
}

// matchesKeywords applies the allow/deny lists to the market title and
// slug, case-insensitively. An empty allow list admits every market.
func (c *Classifier) matchesKeywords(trade polymarket.TradeRecord) bool {
	haystack := strings.ToLower(trade.Title + " " + trade.Slug)

	for _, kw := range c.filters.KeywordDeny {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return false
		}
	}

	if len(c.filters.KeywordAllow) == 0 {
		return true
	}
	for _, kw := range c.filters.KeywordAllow {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
