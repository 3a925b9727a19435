package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Defaults returns the products the catalog is seeded with on first use.
func Defaults() []Product {
	price := decimal.NewFromInt
	return []Product{
		{ID: "prod_1", Name: "Urea Fertilizer (46-0-0)", PriceINR: price(270), Unit: "45kg bag", Category: "Fertilizer"},
		{ID: "prod_2", Name: "DAP Fertilizer (18-46-0)", PriceINR: price(1350), Unit: "50kg bag", Category: "Fertilizer"},
		{ID: "prod_3", Name: "Glyphosate Herbicide 1L", PriceINR: price(600), Unit: "1L bottle", Category: "Pesticide"},
		{ID: "prod_4", Name: "Cypermethrin Insecticide 250ml", PriceINR: price(350), Unit: "250ml bottle", Category: "Pesticide"},
		{ID: "prod_5", Name: "Hybrid Maize Seeds (1kg)", PriceINR: price(400), Unit: "1kg pack", Category: "Seeds"},
		{ID: "prod_6", Name: "Paddy Seeds - Basmati (1kg)", PriceINR: price(150), Unit: "1kg pack", Category: "Seeds"},
		{ID: "prod_7", Name: "Neem Oil Organic Pesticide 500ml", PriceINR: price(300), Unit: "500ml bottle", Category: "Organic"},
		{ID: "prod_8", Name: "Vermicompost Organic Fertilizer (5kg)", PriceINR: price(250), Unit: "5kg bag", Category: "Organic"},
	}
}

// Catalog is the read side of the product collection. On first access it
// seeds the backing store with the default products; afterwards it returns
// whatever the store holds, verbatim. The billing flow never mutates prices.
type Catalog struct {
	repo Repository
}

// NewCatalog creates a Catalog backed by the given repository.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// List returns all products, seeding the defaults when the store is empty.
// The seed is persisted before the first result is returned.
func (c *Catalog) List(ctx context.Context) ([]Product, error) {
	products, err := c.repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	if len(products) > 0 {
		return products, nil
	}

	products = Defaults()
	if err := c.repo.Save(ctx, products); err != nil {
		return nil, errors.Wrap(err, "seed products")
	}
	return products, nil
}

// FindByID returns the product with the given id, or ErrNotFound.
func (c *Catalog) FindByID(ctx context.Context, id string) (*Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByIDs resolves each id to a product. Missing ids are reported via
// ErrNotFound wrapped with the offending id; the lookup stops at the first
// miss so callers can surface it precisely.
func (c *Catalog) FindByIDs(ctx context.Context, ids []string) ([]Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		out = append(out, p)
	}
	return out, nil
}
