// Package bill turns a cart into a fully priced bill snapshot. Bills are
// never persisted: they are recomputed wholesale from current input on
// every change, so the displayed subtotal, discount, and total can never
// drift apart.
package bill

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
)

// PaymentMethod is how the customer settles the bill.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentUPI  PaymentMethod = "UPI"
)

// ErrUnknownPaymentMethod is returned for payment methods other than Cash
// and UPI.
var ErrUnknownPaymentMethod = fmt.Errorf("unknown payment method")

// ParsePaymentMethod validates a payment method. The empty string defaults
// to Cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case "":
		return PaymentCash, nil
	case PaymentCash:
		return PaymentCash, nil
	case PaymentUPI:
		return PaymentUPI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
	}
}

// ProductNotFoundError indicates a requested product does not exist in the
// catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// LineItem is one cart entry priced in the base currency. Quantities are
// coerced before they reach the calculator; the calculator multiplies them
// as given.
type LineItem struct {
	PriceINR decimal.Decimal
	Quantity int
}

// Totals holds the three derived amounts of a bill, rounded to 2 decimal
// places and denominated in the bill currency.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Line is a priced line on an assembled bill.
type Line struct {
	Product   product.Product
	Quantity  int
	UnitPrice decimal.Decimal // in the bill currency
	LineTotal decimal.Decimal
}

// Bill is a computed snapshot of one transaction. The number and date are
// display-only: the number is derived from the clock, not a persisted
// sequence, so it is cosmetic rather than a guaranteed-unique invoice id.
type Bill struct {
	Number        string
	Date          time.Time
	Customer      customer.Customer
	Lines         []Line
	Currency      currency.Currency
	PaymentMethod PaymentMethod
	Totals
}
