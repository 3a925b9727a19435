package localstore

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
)

const productsKey = "products"

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository over the local store.
type ProductRepository struct {
	store *Store
}

// NewProductRepository returns a ProductRepository using the given store.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Load reads all products. A missing key yields an empty list, which the
// catalog treats as "seed me".
func (r *ProductRepository) Load(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok, err := r.store.Get(productsKey)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	if !ok {
		return nil, nil
	}
	products, err := decodeProducts(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// Save replaces the stored product list.
func (r *ProductRepository) Save(ctx context.Context, products []product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Set(productsKey, encodeProducts(products)); err != nil {
		return errors.Wrap(err, "save products")
	}
	return nil
}

func encodeProducts(products []product.Product) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.ArrStart()
	for _, p := range products {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(p.ID)
		e.FieldStart("name")
		e.Str(p.Name)
		e.FieldStart("price_inr")
		// Prices are written as JSON numbers, not strings, so the files stay
		// hand-editable.
		e.Num(jx.Num(p.PriceINR.String()))
		e.FieldStart("unit")
		e.Str(p.Unit)
		e.FieldStart("category")
		e.Str(p.Category)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeProducts(data []byte) ([]product.Product, error) {
	d := jx.DecodeBytes(data)
	var out []product.Product
	if err := d.Arr(func(d *jx.Decoder) error {
		var p product.Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				p.ID, err = d.Str()
			case "name":
				p.Name, err = d.Str()
			case "price_inr":
				var num jx.Num
				if num, err = d.Num(); err != nil {
					return err
				}
				p.PriceINR, err = decimal.NewFromString(num.String())
			case "unit":
				p.Unit, err = d.Str()
			case "category":
				p.Category, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
