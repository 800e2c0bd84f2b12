package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching the persisted transaction format.
	decimal.MarshalJSONWithoutQuotes = true
}

// Round normalizes a monetary amount to 2 decimal places. Every balance
// mutation and every journaled amount passes through here so repeated
// arithmetic cannot accumulate sub-cent drift.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidateAmount checks that amount is positive and does not exceed max.
func ValidateAmount(amount, max decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if max.IsPositive() && amount.GreaterThan(max) {
		return ErrAmountExceedsCap
	}
	return nil
}

// ParseAmount parses a user-supplied amount string into a validated decimal.
func ParseAmount(s string, max decimal.Decimal) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d, max); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
