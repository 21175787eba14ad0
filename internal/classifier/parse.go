package classifier

import (
	"strconv"
	"strings"
)

// ParseFloatOr parses a numeric feed field, returning fallback for empty,
// null-ish or unparseable input. A single malformed field must never abort
// a batch, so callers pass 0 and treat the trade as worthless instead.
func ParseFloatOr(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "None" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}
