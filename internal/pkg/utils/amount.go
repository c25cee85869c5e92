package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatQuantity renders a fixed-point quantity without trailing zeros.
// Example: 100.500000 => "100.5", 1.000 => "1".
func FormatQuantity(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// LamportsToNative converts a smallest-unit balance to the display unit given
// the native divisor.
func LamportsToNative(lamports uint64, divisor int64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(divisor))
}
