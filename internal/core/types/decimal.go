// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Price precisions used across the platform. Selling prices and MRP are
// stored at 2 decimal places, costs at 3 (matching the upstream ERP feed).
const (
	PriceScale = 2
	CostScale  = 3
)

// RoundPrice rounds to 2 decimal places using half-up rounding.
func RoundPrice(m Money) Money {
	return m.Round(PriceScale)
}

// RoundHalfUp rounds to the given number of places using round-half-up
// (0.005 → 0.01), which is what the upstream ERP does for all price fields.
// decimal.Round is already half-away-from-zero; prices are never negative
// here, so half-up and half-away coincide.
func RoundHalfUp(m Money, places int32) Money {
	return m.Round(places)
}

// Percent bounds for custom margins.
var (
	PercentMin = decimal.Zero
	PercentMax = decimal.NewFromInt(100)
)

// PercentInRange reports whether p lies in [0, 100].
func PercentInRange(p Money) bool {
	return p.GreaterThanOrEqual(PercentMin) && p.LessThanOrEqual(PercentMax)
}
