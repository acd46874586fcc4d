package domain

import (
	"github.com/shopspring/decimal"
)

// CurrencyCode is the single currency all prices are held in.
const CurrencyCode = "INR"

// MaxPriceCents caps a single unit or add-on price (1,00,000 rupees).
// Together with MaxLineQuantity it keeps every total far inside int64.
const MaxPriceCents int64 = 10_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxPrice = decimal.NewFromInt(MaxPriceCents)
)

// CentsFromDecimal converts a rupee amount to paise. Amounts with more than
// two fraction digits, a negative sign or above MaxPriceCents are rejected.
func CentsFromDecimal(field string, d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, Invalid(field, "must not be negative")
	}
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, Invalid(field, "at most two decimal places allowed")
	}
	if cents.GreaterThan(maxPrice) {
		return 0, Invalid(field, "must be at most %s", DecimalFromCents(MaxPriceCents).StringFixed(2))
	}
	return cents.IntPart(), nil
}

// DecimalFromCents converts paise back to a rupee amount.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
