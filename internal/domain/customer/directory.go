package customer

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Directory holds the customer collection and enforces the save rules:
// strict mobile validation, non-empty name, and at most one record per
// normalized mobile number.
type Directory struct {
	repo  Repository
	newID func() string
}

// NewDirectory creates a Directory backed by the given repository.
func NewDirectory(repo Repository) *Directory {
	return &Directory{
		repo:  repo,
		newID: func() string { return uuid.New().String() },
	}
}

// FindByMobile returns the customer with the given mobile number, matching
// on the normalized form. It returns ErrNotFound on a miss.
func (d *Directory) FindByMobile(ctx context.Context, mobile string) (*Customer, error) {
	mobile = NormalizeMobile(mobile)

	customers, err := d.repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	for i := range customers {
		if customers[i].Mobile == mobile {
			return &customers[i], nil
		}
	}
	return nil, ErrNotFound
}

// List returns all saved customers in insertion order.
func (d *Directory) List(ctx context.Context) ([]Customer, error) {
	customers, err := d.repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}
	return customers, nil
}

// Search returns customers whose name or mobile contains term,
// case-insensitively. An empty term matches everyone.
func (d *Directory) Search(ctx context.Context, term string) ([]Customer, error) {
	customers, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return customers, nil
	}

	term = strings.ToLower(term)
	matched := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(c.Mobile, term) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Upsert validates and saves a customer, returning the stored record.
//
// A record with a known ID replaces the existing record in place, keeping
// its position. A record without an ID is appended as new, unless another
// record already holds the same normalized mobile, in which case a
// *DuplicateError is returned and nothing is written. The whole collection
// is persisted on every successful save.
func (d *Directory) Upsert(ctx context.Context, c Customer) (*Customer, error) {
	c.Mobile = NormalizeMobile(c.Mobile)
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)

	if !ValidMobile(c.Mobile) {
		return nil, &ValidationError{
			Field:  "mobile",
			Reason: "must be a full international number with +91 or +977 prefix",
		}
	}
	if c.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	customers, err := d.repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load customers")
	}

	if c.ID != "" {
		for i := range customers {
			if customers[i].ID == c.ID {
				// Mobile edits must not collide with another record.
				for j := range customers {
					if j != i && customers[j].Mobile == c.Mobile {
						return nil, &DuplicateError{Mobile: c.Mobile}
					}
				}
				customers[i] = c
				if err := d.repo.Save(ctx, customers); err != nil {
					return nil, errors.Wrap(err, "save customers")
				}
				return &c, nil
			}
		}
		// Unknown ID falls through and is treated as a new record.
	}

	for i := range customers {
		if customers[i].Mobile == c.Mobile {
			return nil, &DuplicateError{Mobile: c.Mobile}
		}
	}

	if c.ID == "" {
		c.ID = d.newID()
	}
	customers = append(customers, c)
	if err := d.repo.Save(ctx, customers); err != nil {
		return nil, errors.Wrap(err, "save customers")
	}
	return &c, nil
}
