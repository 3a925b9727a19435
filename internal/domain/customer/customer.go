package customer

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer matches a lookup. Callers treat
// it as "start a new customer", not as a failure.
var ErrNotFound = errors.New("customer not found")

// ValidationError reports a field that failed validation before an upsert.
// Nothing is written when validation fails.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateError indicates a new-record save collided with an existing
// customer's mobile number. The caller should select the existing record.
type DuplicateError struct {
	Mobile string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("customer with mobile %s already exists", e.Mobile)
}

// Customer is a saved shop customer. Mobile is the natural key: the
// directory holds at most one record per normalized mobile number.
type Customer struct {
	ID      string
	Mobile  string
	Name    string
	Address string
}

// Repository provides access to the persisted customer collection. The
// whole collection is loaded and saved as one unit; the store has a single
// writer, so last write wins.
type Repository interface {
	Load(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, customers []Customer) error
}
