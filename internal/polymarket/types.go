package polymarket

import (
	"fmt"
	"strings"
)

const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"
)

// Numeric holds a raw numeric field from the data feed. The feed is
// inconsistent about quoting numbers, so both `"0.08"` and `0.08` decode
// to the same raw text. Parsing to float happens later, with a fallback.
type Numeric string

// UnmarshalJSON accepts quoted and unquoted numbers as well as null.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	*n = Numeric(strings.Trim(s, `"`))
	return nil
}

func (n Numeric) String() string { return string(n) }

// TradeRecord is a single trade from the Polymarket activity feed.
type TradeRecord struct {
	ProxyWallet     string  `json:"proxyWallet"`
	Side            string  `json:"side"`
	Size            Numeric `json:"size"`
	Price           Numeric `json:"price"`
	UsdcSize        Numeric `json:"usdcSize"`
	Timestamp       int64   `json:"timestamp"` // unix seconds
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Outcome         string  `json:"outcome"`
	TransactionHash string  `json:"transactionHash"`
}

// Key returns the dedup identity of the trade: the transaction hash when
// present, otherwise a composite of timestamp, wallet, size and price.
func (t TradeRecord) Key() string {
	if t.TransactionHash != "" {
		return t.TransactionHash
	}
	return fmt.Sprintf("%d:%s:%s:%s", t.Timestamp, t.ProxyWallet, t.Size, t.Price)
}
