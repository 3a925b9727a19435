package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/auth"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/bill"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
	"github.com/gauravMishra08/MKBBbilling/internal/receipt"
)

// --- Mock implementations ---

type memProductRepo struct {
	products []product.Product
}

func (m *memProductRepo) Load(_ context.Context) ([]product.Product, error) {
	return m.products, nil
}

func (m *memProductRepo) Save(_ context.Context, products []product.Product) error {
	m.products = products
	return nil
}

type memCustomerRepo struct {
	customers []customer.Customer
}

func (m *memCustomerRepo) Load(_ context.Context) ([]customer.Customer, error) {
	return m.customers, nil
}

func (m *memCustomerRepo) Save(_ context.Context, customers []customer.Customer) error {
	m.customers = customers
	return nil
}

type memAPIKeyRepo struct {
	keys []auth.APIKeyInfo
}

func (m *memAPIKeyRepo) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	for i := range m.keys {
		if m.keys[i].KeyHash == hash {
			return &m.keys[i], nil
		}
	}
	return nil, errors.New("api key not found")
}

// --- Helpers ---

func newTestMux(t *testing.T, guard func(http.Handler) http.Handler) (*http.ServeMux, *memCustomerRepo) {
	t.Helper()

	productRepo := &memProductRepo{products: product.Defaults()}
	customerRepo := &memCustomerRepo{}
	catalog := product.NewCatalog(productRepo)
	directory := customer.NewDirectory(customerRepo)
	assembler := bill.NewAssembler(catalog, currency.NewDefaultConverter())

	h := NewHandler(Config{Shop: receipt.DefaultShop()}, catalog, directory, assembler)
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	mux := http.NewServeMux()
	h.Register(mux, guard)
	return mux, customerRepo
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestListProducts(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []productJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 8)
	assert.Equal(t, "prod_1", got[0].ID)
	assert.Equal(t, "270.00", got[0].PriceINR)
}

func TestGetProduct(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/products/prod_2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got productJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "1350.00", got.PriceINR)
}

func TestGetProduct_NotFound(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodGet, "/api/products/prod_99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestUpsertCustomer_Create(t *testing.T) {
	mux, repo := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"+91 98765 43210","name":"  Ram  ","address":"Nautanwa"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got customerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "+919876543210", got.Mobile)
	assert.Equal(t, "Ram", got.Name)
	require.Len(t, repo.customers, 1)
}

func TestUpsertCustomer_UpdateInPlace(t *testing.T) {
	mux, repo := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"+919876543210","name":"Ram","address":"Nautanwa"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created customerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"id":"`+created.ID+`","mobile":"+919876543210","name":"Ram","address":"Sonauli"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, repo.customers, 1)
	assert.Equal(t, "Sonauli", repo.customers[0].Address)
}

func TestUpsertCustomer_Validation(t *testing.T) {
	mux, repo := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"12345","name":"Ram"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, repo.customers)

	rec = doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"+919876543210","name":"   "}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpsertCustomer_DuplicateMobile(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"+919876543210","name":"Ram"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodPut, "/api/customers",
		`{"mobile":"+919876543210","name":"Shyam"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCustomers_ByMobile(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	doJSON(t, mux, http.MethodPut, "/api/customers", `{"mobile":"+919876543210","name":"Ram"}`)

	rec := doJSON(t, mux, http.MethodGet, "/api/customers?mobile=%2B919876543210", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got customerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Ram", got.Name)

	rec = doJSON(t, mux, http.MethodGet, "/api/customers?mobile=%2B919999999999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCustomers_Search(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	doJSON(t, mux, http.MethodPut, "/api/customers", `{"mobile":"+919876543210","name":"Ram Prasad"}`)
	doJSON(t, mux, http.MethodPut, "/api/customers", `{"mobile":"+9779812345678","name":"Sita Devi"}`)

	rec := doJSON(t, mux, http.MethodGet, "/api/customers?q=ram", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []customerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ram Prasad", got[0].Name)

	rec = doJSON(t, mux, http.MethodGet, "/api/customers", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestPreviewBill(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/bills/preview", `{
		"customer": {"mobile": "+919876543210", "name": "Ram"},
		"items": [
			{"product_id": "prod_2", "quantity": 1},
			{"product_id": "prod_5", "quantity": 2}
		],
		"discount": "500"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got billPreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2150.00", got.Subtotal)
	assert.Equal(t, "500.00", got.Discount)
	assert.Equal(t, "1650.00", got.Total)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "Cash", got.PaymentMethod)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "400.00", got.Lines[1].UnitPrice)
	assert.Equal(t, "800.00", got.Lines[1].LineTotal)
	assert.Contains(t, got.Text, "Bill Summary")
	assert.Contains(t, got.WhatsAppURL, "https://wa.me/919876543210?text=")
}

func TestPreviewBill_NPR(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/bills/preview", `{
		"customer": {"mobile": "+9779812345678", "name": "Sita"},
		"items": [{"product_id": "prod_6", "quantity": 1}],
		"currency": "NPR"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got billPreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "240.00", got.Subtotal)
}

func TestPreviewBill_UnknownProduct(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/bills/preview", `{
		"customer": {"name": "Walk-in"},
		"items": [{"product_id": "prod_99", "quantity": 1}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreviewBill_BadCurrency(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/bills/preview", `{"currency": "USD"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewBill_NoMobileOmitsLink(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/bills/preview", `{
		"customer": {"name": "Walk-in"},
		"items": [{"product_id": "prod_1", "quantity": 1}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got billPreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.WhatsAppURL)
}

func TestSecurityGuard(t *testing.T) {
	pepper := []byte("pepper")
	keys := &memAPIKeyRepo{keys: []auth.APIKeyInfo{{
		ID:      "default",
		KeyHash: auth.HashKey("good-key", pepper),
		Name:    "Shop owner key",
	}}}
	guard := NewSecurityGuard(keys, pepper)
	mux, _ := newTestMux(t, guard.Wrap)

	body := `{"mobile":"+919876543210","name":"Ram"}`

	rec := doJSON(t, mux, http.MethodPut, "/api/customers", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(body))
	req.Header.Set(APIKeyHeader, "bad-key")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(body))
	req.Header.Set(APIKeyHeader, "good-key")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Reads stay open.
	rec = doJSON(t, mux, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityGuard_DisabledWithoutPepper(t *testing.T) {
	guard := NewSecurityGuard(&memAPIKeyRepo{}, nil)
	mux, _ := newTestMux(t, guard.Wrap)

	rec := doJSON(t, mux, http.MethodPut, "/api/customers", `{"mobile":"+919876543210","name":"Ram"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
