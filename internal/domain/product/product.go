package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for sale. Prices are stored
// in INR; conversion to the bill currency happens at bill time.
type Product struct {
	ID       string
	Name     string
	PriceINR decimal.Decimal
	Unit     string
	Category string
}

// Repository provides access to the persisted product collection. The whole
// collection is loaded and saved as one unit, matching the single-key
// storage layout.
type Repository interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}
