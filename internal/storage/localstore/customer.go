package localstore

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
)

const customersKey = "customers"

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository over the local store.
// The whole customer list lives under one key and is replaced on every
// save.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository returns a CustomerRepository using the given store.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

// Load reads all customers. A missing key yields an empty list.
func (r *CustomerRepository) Load(ctx context.Context) ([]customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok, err := r.store.Get(customersKey)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	if !ok {
		return nil, nil
	}
	customers, err := decodeCustomers(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode customers")
	}
	return customers, nil
}

// Save replaces the stored customer list.
func (r *CustomerRepository) Save(ctx context.Context, customers []customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.Set(customersKey, encodeCustomers(customers)); err != nil {
		return errors.Wrap(err, "save customers")
	}
	return nil
}

func encodeCustomers(customers []customer.Customer) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.ArrStart()
	for _, c := range customers {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(c.ID)
		e.FieldStart("mobile")
		e.Str(c.Mobile)
		e.FieldStart("name")
		e.Str(c.Name)
		e.FieldStart("address")
		e.Str(c.Address)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeCustomers(data []byte) ([]customer.Customer, error) {
	d := jx.DecodeBytes(data)
	var out []customer.Customer
	if err := d.Arr(func(d *jx.Decoder) error {
		var c customer.Customer
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				c.ID, err = d.Str()
			case "mobile":
				c.Mobile, err = d.Str()
			case "name":
				c.Name, err = d.Str()
			case "address":
				c.Address, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
