package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
)

// productJSON is the API representation of a catalog product. Prices are
// strings with two decimal places so clients never touch binary floats.
type productJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PriceINR string `json:"price_inr"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

func toProductJSON(p product.Product) productJSON {
	return productJSON{
		ID:       p.ID,
		Name:     p.Name,
		PriceINR: p.PriceINR.StringFixed(2),
		Unit:     p.Unit,
		Category: p.Category,
	}
}

// ListProducts returns the full catalog, seeding defaults on first use.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]productJSON, len(products))
	for i, p := range products {
		out[i] = toProductJSON(p)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductJSON(*p))
}
