package bill

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
)

// ProductLookup is the slice of the catalog the assembler needs.
type ProductLookup interface {
	List(ctx context.Context) ([]product.Product, error)
}

// Item is one requested cart entry before pricing.
type Item struct {
	ProductID string
	Quantity  int
}

// Request is the input to Assemble: everything the presentation layer knows
// about the bill being composed.
type Request struct {
	Customer      customer.Customer
	Items         []Item
	Currency      currency.Currency
	PaymentMethod PaymentMethod
	DiscountInput string
}

// Assembler composes customer state, catalog products, and computed totals
// into a Bill. It owns nothing and writes nothing: saving customers or
// products happens only through explicit user actions elsewhere.
type Assembler struct {
	products ProductLookup
	conv     currency.Converter
	now      func() time.Time
}

// NewAssembler creates an Assembler using the given catalog and conversion
// rate.
func NewAssembler(products ProductLookup, conv currency.Converter) *Assembler {
	return &Assembler{
		products: products,
		conv:     conv,
		now:      time.Now,
	}
}

// Assemble prices the request into a Bill. Non-positive quantities are
// coerced to 1. An empty cart yields a valid bill with zero totals, which
// the presentation layer renders as a placeholder. Unknown products are
// reported via *ProductNotFoundError.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Bill, error) {
	catalog, err := a.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	byID := make(map[string]product.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	lines := make([]Line, len(req.Items))
	items := make([]LineItem, len(req.Items))
	for i, item := range req.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		unit := a.conv.FromINR(p.PriceINR, req.Currency).Round(2)
		lines[i] = Line{
			Product:   p,
			Quantity:  qty,
			UnitPrice: unit,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		}
		items[i] = LineItem{PriceINR: p.PriceINR, Quantity: qty}
	}

	now := a.now()
	return &Bill{
		Number:        billNumber(now),
		Date:          now,
		Customer:      req.Customer,
		Lines:         lines,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Totals:        ComputeTotals(items, a.conv, req.Currency, req.DiscountInput),
	}, nil
}

// billNumber derives the display-only bill number from the clock: "INV-"
// plus the last six digits of the unix millisecond timestamp.
func billNumber(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1_000_000)
}
