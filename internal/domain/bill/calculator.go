package bill

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
)

// ComputeTotals prices a cart in the requested currency and applies the
// discount rule: a discount is a fixed amount, never negative and never
// more than the subtotal. Malformed discount input degrades to zero rather
// than failing, so the function always returns a result.
func ComputeTotals(items []LineItem, conv currency.Converter, cur currency.Currency, discountInput string) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		unit := conv.FromINR(item.PriceINR, cur)
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)

	discount := parseDiscount(discountInput)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount.Round(2),
		Total:    subtotal.Sub(discount).Round(2),
	}
}

// parseDiscount parses user discount input. Empty, unparseable, or negative
// input all yield zero.
func parseDiscount(input string) decimal.Decimal {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(input)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
