package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
)

// customerJSON is the API representation of a saved customer.
type customerJSON struct {
	ID      string `json:"id"`
	Mobile  string `json:"mobile"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

func toCustomerJSON(c customer.Customer) customerJSON {
	return customerJSON{ID: c.ID, Mobile: c.Mobile, Name: c.Name, Address: c.Address}
}

// ListCustomers serves three lookups from one route: exact match by
// ?mobile=, substring search by ?q=, and the full list when neither is
// given. The mobile lookup returns a single object; the others return
// arrays.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if mobile := r.URL.Query().Get("mobile"); mobile != "" {
		c, err := h.directory.FindByMobile(ctx, mobile)
		if err != nil {
			if errors.Is(err, customer.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "customer not found")
				return
			}
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toCustomerJSON(*c))
		return
	}

	customers, err := h.directory.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]customerJSON, len(customers))
	for i, c := range customers {
		out[i] = toCustomerJSON(c)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// UpsertCustomer validates and saves a customer. New records are created
// without an id; records with an id are updated in place. A new record
// whose mobile collides with an existing customer is rejected with 409.
func (h *Handler) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.directory.Upsert(r.Context(), customer.Customer{
		ID:      req.ID,
		Mobile:  req.Mobile,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		var (
			vErr *customer.ValidationError
			dErr *customer.DuplicateError
		)
		switch {
		case errors.As(err, &vErr):
			writeError(w, r, http.StatusUnprocessableEntity, vErr.Error())
		case errors.As(err, &dErr):
			writeError(w, r, http.StatusConflict, dErr.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, toCustomerJSON(*saved))
}
