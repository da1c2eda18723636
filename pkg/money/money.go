package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents converts a decimal amount to integer minor currency units, rounding
// half away from zero. Payment amounts always travel as minor units so float
// drift never reaches the gateway.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// ApplyRate multiplies cents by a decimal rate and rounds half away from
// zero, in minor units. Used for tax.
func ApplyRate(cents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(rate).Round(0).IntPart()
}

// FormatUSD renders minor units for display, e.g. 2999 -> "$29.99".
func FormatUSD(cents int64) string {
	return fmt.Sprintf("$%s", FromCents(cents).StringFixed(2))
}
