// Package store owns the two persistent state tables: trades that have
// already been classified and cached wallet first-trade timestamps. No
// other component writes to these tables. Any I/O error here is fatal for
// the run — without dedup the monitor would double-alert, so callers must
// abort rather than proceed on a failed store.
package store

import (
	"errors"
	"fmt"
	"time"

	"polymarket-whale-monitor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store provides durable dedup and wallet-age caching on top of SQLite.
// The database is the source of truth; Store keeps no in-memory state.
type Store struct {
	db            *gorm.DB
	seenRetention time.Duration
	walletTTL     time.Duration
}

// New creates a Store with the given retention windows.
func New(db *gorm.DB, seenRetention, walletTTL time.Duration) *Store {
	return &Store{
		db:            db,
		seenRetention: seenRetention,
		walletTTL:     walletTTL,
	}
}

// WalletTTL returns the configured wallet cache time-to-live.
func (s *Store) WalletTTL() time.Duration {
	return s.walletTTL
}

// HasSeen reports whether a trade key has already been classified. It is a
// pure read with no side effects.
func (s *Store) HasSeen(tradeKey string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.SeenTrade{}).Where("trade_key = ?", tradeKey).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to query seen trade %q: %w", tradeKey, err)
	}
	return count > 0, nil
}

// MarkSeen upserts a seen-trade row. Marking the same key twice is a
// no-op in effect: seen_at takes the last write, the key stays unique.
func (s *Store) MarkSeen(tradeKey string, seenAt int64) error {
	row := models.SeenTrade{TradeKey: tradeKey, SeenAt: seenAt}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"seen_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to mark trade %q seen: %w", tradeKey, err)
	}
	return nil
}

// GetWalletAge returns the cached age entry for a wallet, or nil if the
// wallet is unknown to the cache. A non-nil entry with a nil FirstTradeTS
// is a confirmed no-history result, not a missing value.
func (s *Store) GetWalletAge(wallet string) (*models.WalletAgeEntry, error) {
	var entry models.WalletAgeEntry
	err := s.db.First(&entry, "wallet = ?", wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet age for %q: %w", wallet, err)
	}
	return &entry, nil
}

// SetWalletAge upserts the cached first-trade timestamp for a wallet.
func (s *Store) SetWalletAge(wallet string, firstTradeTS *int64, updatedAt int64) error {
	row := models.WalletAgeEntry{
		Wallet:       wallet,
		FirstTradeTS: firstTradeTS,
		UpdatedAt:    updatedAt,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_trade_ts", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to cache wallet age for %q: %w", wallet, err)
	}
	return nil
}

// Prune deletes seen-trade rows older than the retention window and wallet
// cache rows older than the TTL. Both deletions run in one transaction so a
// prune either fully applies or leaves the store untouched.
func (s *Store) Prune(now time.Time) error {
	seenCutoff := now.Add(-s.seenRetention).Unix()
	walletCutoff := now.Add(-s.walletTTL).Unix()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("seen_at < ?", seenCutoff).Delete(&models.SeenTrade{}).Error; err != nil {
			return fmt.Errorf("failed to prune seen trades: %w", err)
		}
		if err := tx.Where("updated_at < ?", walletCutoff).Delete(&models.WalletAgeEntry{}).Error; err != nil {
			return fmt.Errorf("failed to prune wallet age cache: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	return nil
}
