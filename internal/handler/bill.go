package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/bill"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/receipt"
)

// billPreviewRequest carries everything needed to price a bill. The
// customer block is inline: bills can be previewed for walk-in customers
// who were never saved.
type billPreviewRequest struct {
	Customer struct {
		ID      string `json:"id"`
		Mobile  string `json:"mobile"`
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"customer"`
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	Discount      string `json:"discount"`
}

type billLineJSON struct {
	Product   productJSON `json:"product"`
	Quantity  int         `json:"quantity"`
	UnitPrice string      `json:"unit_price"`
	LineTotal string      `json:"line_total"`
}

type billPreviewResponse struct {
	Number        string         `json:"number"`
	Date          string         `json:"date"`
	Customer      customerJSON   `json:"customer"`
	Lines         []billLineJSON `json:"lines"`
	Currency      string         `json:"currency"`
	PaymentMethod string         `json:"payment_method"`
	Subtotal      string         `json:"subtotal"`
	Discount      string         `json:"discount"`
	Total         string         `json:"total"`
	Text          string         `json:"text"`
	WhatsAppURL   string         `json:"whatsapp_url,omitempty"`
}

// PreviewBill prices a cart and returns the complete bill snapshot,
// including the rendered receipt text and, when the customer has a mobile
// number, a WhatsApp share link. Nothing is persisted.
func (h *Handler) PreviewBill(w http.ResponseWriter, r *http.Request) {
	var req billPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cur, err := currency.Parse(req.Currency)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	method, err := bill.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]bill.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = bill.Item{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	b, err := h.assembler.Assemble(r.Context(), bill.Request{
		Customer: customer.Customer{
			ID:      req.Customer.ID,
			Mobile:  customer.NormalizeMobile(req.Customer.Mobile),
			Name:    req.Customer.Name,
			Address: req.Customer.Address,
		},
		Items:         items,
		Currency:      cur,
		PaymentMethod: method,
		DiscountInput: req.Discount,
	})
	if err != nil {
		var pnfErr *bill.ProductNotFoundError
		if errors.As(err, &pnfErr) {
			writeError(w, r, http.StatusUnprocessableEntity, pnfErr.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	resp := billPreviewResponse{
		Number:        b.Number,
		Date:          b.Date.Format("02/01/2006"),
		Customer:      toCustomerJSON(b.Customer),
		Lines:         make([]billLineJSON, len(b.Lines)),
		Currency:      string(b.Currency),
		PaymentMethod: string(b.PaymentMethod),
		Subtotal:      b.Subtotal.StringFixed(2),
		Discount:      b.Discount.StringFixed(2),
		Total:         b.Total.StringFixed(2),
		Text:          receipt.Text(b, h.shop),
	}
	for i, line := range b.Lines {
		resp.Lines[i] = billLineJSON{
			Product:   toProductJSON(line.Product),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		}
	}

	if link, err := receipt.WhatsAppLink(b, h.shop); err == nil {
		resp.WhatsAppURL = link
	}

	writeJSON(w, r, http.StatusOK, resp)
}
