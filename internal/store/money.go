package store

import (
	"github.com/shopspring/decimal"
)

// parseMoney validates a monetary string and normalizes it to two decimal
// places. Money is kept as decimal-as-text end to end; float64 never touches
// an amount.
func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, validationf("%s must be a decimal amount, got %q", field, value)
	}
	if d.IsNegative() {
		return decimal.Zero, validationf("%s must not be negative, got %q", field, value)
	}
	return d, nil
}

// moneyString renders an amount the way the store persists it: fixed two
// decimal places.
func moneyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// normalizeMoney is parseMoney + render in one step.
func normalizeMoney(field, value string) (string, error) {
	d, err := parseMoney(field, value)
	if err != nil {
		return "", err
	}
	return moneyString(d), nil
}
