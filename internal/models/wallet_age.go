package models

// WalletAgeEntry caches the first-trade timestamp of a wallet.
//
// FirstTradeTS is nullable: a NULL value with a real UpdatedAt means the
// wallet was looked up and confirmed to have no prior activity, which is a
// valid cached result and distinct from the wallet being absent from the
// table entirely. UpdatedAt is refreshed on every resolution attempt,
// successful or not; rows past the TTL are pruned and re-resolved on the
// next access.
type WalletAgeEntry struct {
	Wallet       string `gorm:"primaryKey"`
	FirstTradeTS *int64 // unix seconds, NULL = confirmed no history
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"` // unix seconds
}
