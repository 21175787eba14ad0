package models

// SeenTrade records a trade key that has already been classified. A key
// present in this table must never be alerted again. Rows are pruned once
// SeenAt falls outside the retention window.
type SeenTrade struct {
	TradeKey string `gorm:"primaryKey"`
	SeenAt   int64  `gorm:"not null"` // unix seconds
}
