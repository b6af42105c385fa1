// Package moneypkg provides helpers for monetary amounts kept in minor
// currency units.
package moneypkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinorUnitScale is the number of decimal places of one major currency unit.
const MinorUnitScale = 2

var (
	// ErrInvalidAmount indicates an amount that cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooManyDecimals indicates an amount with sub-minor-unit precision.
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// Display renders minor units as a decimal string in major units,
// e.g. 1250 -> "12.50".
func Display(minorUnits int64) string {
	return decimal.New(minorUnits, -MinorUnitScale).StringFixed(MinorUnitScale)
}

// Parse converts a decimal string in major units to minor units,
// e.g. "12.50" -> 1250.
func Parse(display string) (int64, error) {
	d, err := decimal.NewFromString(display)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	minor := d.Shift(MinorUnitScale)
	if !minor.IsInteger() {
		return 0, ErrTooManyDecimals
	}

	return minor.IntPart(), nil
}
