package signature

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScaleAmount multiplies amount by the provider's factor and renders it as an
// integer string. Amounts that would need rounding are rejected.
func ScaleAmount(amount decimal.Decimal, factor int64) (string, error) {
	scaled := amount.Mul(decimal.NewFromInt(factor))
	if !scaled.IsInteger() {
		return "", fmt.Errorf("amount %s cannot be represented in provider units", amount)
	}

	return scaled.StringFixed(0), nil
}

// UnscaleAmount reverses ScaleAmount for amounts read from notifications.
func UnscaleAmount(raw string, factor int64) (decimal.Decimal, error) {
	scaled, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	return scaled.Div(decimal.NewFromInt(factor)), nil
}
