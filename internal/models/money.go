package models

import "github.com/shopspring/decimal"

// EpsilonCents is the tolerance for sums that originate from decimal input.
// One cent absorbs the rounding residue of an equal split; anything larger is
// a real inconsistency.
const EpsilonCents int64 = 1

// Cents converts a decimal currency amount (e.g. 12.34) to integer minor
// units. The conversion goes through decimal arithmetic so that binary float
// noise (12.34 stored as 12.339999...) cannot shift the result by a cent.
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// Amount converts integer minor units back to a 2-decimal currency amount for
// the JSON boundary.
func Amount(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}
