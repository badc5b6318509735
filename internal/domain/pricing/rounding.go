// Package pricing implements the selling-price computation used by both
// sales channels: psychological rounding, margin resolution and the final
// price calculation. Everything here is pure decimal math over by-value
// inputs; persistence and batching live elsewhere.
package pricing

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/types"
)

// Psychological price endings, in ascending order. A price is always rounded
// up to the next ending; exact hits stay where they are.
var roundingTargets = []decimal.Decimal{
	decimal.NewFromFloat(0.25),
	decimal.NewFromFloat(0.49),
	decimal.NewFromFloat(0.75),
	decimal.NewFromFloat(0.99),
}

var (
	oneCent  = decimal.NewFromFloat(0.01)
	target99 = decimal.NewFromFloat(0.99)
)

// RoundPsychological applies smart rounding to a non-negative amount.
//
// With bypass=true the amount is rounded half-up to 2 decimal places and
// returned as-is: a .00 ending is preserved. This path carries the
// zero-margin rule, so it must never fall through to the smart targets.
//
// Otherwise the fractional part is lifted to the smallest attractive ending
// (.25/.49/.75/.99) not below it; a whole-number amount drops to .99 of the
// previous integer (10.00 -> 9.99). Amounts already at a target are
// unchanged. The result always has exactly two decimal places.
func RoundPsychological(amount types.Money, bypass bool) types.Money {
	if bypass {
		return types.RoundHalfUp(amount, types.PriceScale)
	}

	whole := amount.Floor()
	frac := amount.Sub(whole)

	// Whole-number boundary: convert to .99 of the previous integer.
	// Amounts under 1.00 have no previous integer and stay at zero.
	if frac.IsZero() {
		if whole.IsPositive() {
			return whole.Sub(oneCent)
		}
		return decimal.Zero
	}

	// Smallest target not below the fraction; exact hits stay as they are.
	for _, t := range roundingTargets {
		if frac.LessThanOrEqual(t) {
			return whole.Add(t)
		}
	}
	return whole.Add(target99)
}
