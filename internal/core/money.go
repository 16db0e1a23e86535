// Package core provides amount conversion and display helpers.
//
// Amounts travel as JSON numbers and are stored as integer cents.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// CentsFromAmount converts a decimal amount to cents, rounding half away from zero.
// Amounts whose cents do not fit in an int64 fail with ErrInvalidAmount.
func CentsFromAmount(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidAmount, amount)
	}
	return cents.IntPart(), nil
}

// AmountFromCents converts stored cents back to the wire amount.
func AmountFromCents(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// FormatAmount renders an amount the shortest way that round-trips (3.5, 12, 0.25).
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

// ParseAmount parses user input as a float. ok is false when the input is not a number,
// in which case the amount is left for the backend to reject.
func ParseAmount(s string) (amount float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
