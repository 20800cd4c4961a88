// Package money holds the currency helpers of the auction: rupee amounts are
// stored as int64 and rendered in crore/lakh denominations.
package money

import (
	"github.com/shopspring/decimal"
)

const (
	// Lakh is 100,000 rupees.
	Lakh int64 = 100_000
	// Crore is 10,000,000 rupees.
	Crore int64 = 10_000_000

	// StartingPurse — стартовый бюджет каждой команды (50 Cr).
	StartingPurse int64 = 50 * Crore
)

// FormatCr renders a rupee amount as a two-decimal crore string, e.g.
// 22500000 -> "2.25 Cr".
func FormatCr(amount int64) string {
	return toUnit(amount, Crore) + " Cr"
}

// FormatL renders a rupee amount as a two-decimal lakh string.
func FormatL(amount int64) string {
	return toUnit(amount, Lakh) + " L"
}

func toUnit(amount, unit int64) string {
	return decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(unit)).
		StringFixed(2)
}

// NextIncrement maps the current bid to the fixed step the next bid must add.
//
// The two lowest tiers deliberately share the same increment; the tier table
// is kept branch for branch:
//
//	bid < 1 Cr          -> +25 L
//	1 Cr <= bid <= 5 Cr -> +25 L
//	5 Cr < bid <= 10 Cr -> +50 L
//	bid > 10 Cr         -> +1 Cr
func NextIncrement(currentBid int64) int64 {
	switch {
	case currentBid < 1*Crore:
		return 25 * Lakh
	case currentBid <= 5*Crore:
		return 25 * Lakh
	case currentBid <= 10*Crore:
		return 50 * Lakh
	default:
		return 1 * Crore
	}
}
