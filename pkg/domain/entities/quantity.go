package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a decimal amount of units. BOM usages are often fractional
// (grams of compound, metres of cable) so quantities are not integers.
type Quantity = decimal.Decimal

// ParseQuantity parses a raw numeric cell. Thousands separators and
// surrounding whitespace are accepted; anything else reports ok=false.
func ParseQuantity(raw string) (Quantity, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	switch strings.ToLower(s) {
	case "nan", "inf", "+inf", "-inf", "none", "null":
		return decimal.Zero, false
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return q, true
}

// CoerceQuantity parses a raw numeric cell and falls back to zero when the
// value is missing or not a number.
func CoerceQuantity(raw string) Quantity {
	q, _ := ParseQuantity(raw)
	return q
}
