// Package wallet resolves how old a wallet is, backed by the persistent
// age cache so that an active wallet costs at most one external lookup per
// TTL window.
package wallet

import (
	"context"
	"time"

	"polymarket-whale-monitor/internal/models"

	"go.uber.org/zap"
)

// AgeState distinguishes the three outcomes of an age resolution. A single
// nullable timestamp cannot express all of them: "confirmed no history" and
// "lookup failed this attempt" both carry no timestamp but mean different
// things.
type AgeState int

const (
	// AgeUnresolved means the history lookup failed on this attempt. The
	// wallet is treated as new until the cached entry expires.
	AgeUnresolved AgeState = iota
	// AgeKnown means the wallet's first trade timestamp is known.
	AgeKnown
	// AgeNoHistory means the wallet was confirmed to have no prior trades.
	AgeNoHistory
)

// Age is the result of resolving a wallet's first-trade timestamp.
type Age struct {
	State        AgeState
	FirstTradeTS int64 // unix seconds, valid only when State == AgeKnown
}

// Days returns the wallet age in days at the given time. Wallets without a
// known first trade have age zero.
func (a Age) Days(now time.Time) float64 {
	if a.State != AgeKnown {
		return 0
	}
	return now.Sub(time.Unix(a.FirstTradeTS, 0)).Hours() / 24
}

// HistorySource looks up a wallet's earliest recorded trade. The boolean
// is false when the wallet has no history, which is not an error.
type HistorySource interface {
	GetEarliestTradeTS(ctx context.Context, wallet string) (int64, bool, error)
}

// AgeCache is the subset of the persistent store the resolver needs.
type AgeCache interface {
	GetWalletAge(wallet string) (*models.WalletAgeEntry, error)
	SetWalletAge(wallet string, firstTradeTS *int64, updatedAt int64) error
}

// Resolver resolves wallet ages, consulting the cache before the external
// history source.
type Resolver struct {
	logger *zap.Logger
	cache  AgeCache
	source HistorySource
	ttl    time.Duration
}

// NewResolver creates a Resolver with the given cache TTL.
func NewResolver(logger *zap.Logger, cache AgeCache, source HistorySource, ttl time.Duration) *Resolver {
	return &Resolver{
		logger: logger,
		cache:  cache,
		source: source,
		ttl:    ttl,
	}
}

// Resolve returns the wallet's age, from cache when the entry is inside the
// TTL and from the history source otherwise. Every external attempt is
// persisted with a fresh updated_at, including failed ones: a transient
// lookup failure mis-classifies the wallet as new for at most one TTL
// window instead of blocking the run. Only cache I/O errors are returned.
func (r *Resolver) Resolve(ctx context.Context, wallet string, now time.Time) (Age, error) {
	entry, err := r.cache.GetWalletAge(wallet)
	if err != nil {
		return Age{}, err
	}

	if entry != nil && now.Unix()-entry.UpdatedAt < int64(r.ttl.Seconds()) {
		return ageFromEntry(entry), nil
	}

	ts, found, err := r.source.GetEarliestTradeTS(ctx, wallet)
	if err != nil {
		r.logger.Warn("Wallet history lookup failed, treating wallet as new",
			zap.String("wallet", wallet),
			zap.Error(err),
		)
		if err := r.cache.SetWalletAge(wallet, nil, now.Unix()); err != nil {
			return Age{}, err
		}
		return Age{State: AgeUnresolved}, nil
	}

	if !found {
		if err := r.cache.SetWalletAge(wallet, nil, now.Unix()); err != nil {
			return Age{}, err
		}
		return Age{State: AgeNoHistory}, nil
	}

	if err := r.cache.SetWalletAge(wallet, &ts, now.Unix()); err != nil {
		return Age{}, err
	}
	return Age{State: AgeKnown, FirstTradeTS: ts}, nil
}

// ageFromEntry maps a cached row to an Age. A cached NULL timestamp is a
// confirmed no-history result.
func ageFromEntry(entry *models.WalletAgeEntry) Age {
	if entry.FirstTradeTS == nil {
		return Age{State: AgeNoHistory}
	}
	return Age{State: AgeKnown, FirstTradeTS: *entry.FirstTradeTS}
}
