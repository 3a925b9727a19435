// Package handler exposes the billing core over HTTP. Handlers translate
// between JSON payloads and domain types; all business rules live in the
// domain packages.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/bill"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
	"github.com/gauravMishra08/MKBBbilling/internal/receipt"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// Shop is the identity printed on receipts.
	Shop receipt.Shop
}

// Handler serves the billing API, delegating business logic to the catalog,
// directory, and assembler.
type Handler struct {
	catalog   *product.Catalog
	directory *customer.Directory
	assembler *bill.Assembler
	shop      receipt.Shop
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	catalog *product.Catalog,
	directory *customer.Directory,
	assembler *bill.Assembler,
) *Handler {
	return &Handler{
		catalog:   catalog,
		directory: directory,
		assembler: assembler,
		shop:      cfg.Shop,
	}
}

// Register attaches all API routes to the mux. Mutating routes go through
// guard; read-only routes do not.
func (h *Handler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/customers", h.ListCustomers)
	mux.Handle("PUT /api/customers", guard(http.HandlerFunc(h.UpsertCustomer)))
	mux.HandleFunc("POST /api/bills/preview", h.PreviewBill)
}

// errorResponse is the uniform error payload of the API.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// writeInternalError logs the cause and hides it from the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
