// Package core provides the transaction domain types and input parsing.
//
// This file contains amount parsing. Amounts are arbitrary-precision
// decimals; sign is carried by the transaction type, never by the amount.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored and rendered amounts are plain JSON numbers, matching the
	// persistence format ({"amount": 12.34}, not {"amount": "12.34"}).
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount converts user input to a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Explicit signs, zero, negative values and any non-numeric input are
// rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			continue
		}
		if !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if dots > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
