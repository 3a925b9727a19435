// Package receipt renders assembled bills into shareable text. The only
// output channel is a WhatsApp deep link: the shop sends the bill summary
// from the owner's phone, no messaging API involved.
package receipt

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/bill"
)

// ErrNoMobile is returned when a WhatsApp link is requested for a bill
// whose customer has no mobile number.
var ErrNoMobile = errors.New("customer mobile number required")

// Shop is the identity block printed on every receipt.
type Shop struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	GSTIN       string   `json:"gstin"`
	SeedLicence string   `json:"seed_licence"`
	PestLicence string   `json:"pesticide_licence"`
	Mobiles     []string `json:"mobiles"`
}

// DefaultShop returns the identity of Mishra Krishi Beej Bhandar, the shop
// this system was built for.
func DefaultShop() Shop {
	return Shop{
		Name:        "मिश्रा कृषि बीज भण्डार",
		Address:     "हरदी डाली, नौतनवां, जिला- महराजगंज (उ.प्र.)",
		GSTIN:       "09AXDPM6796R1Z9",
		SeedLicence: "491/49090",
		PestLicence: "13/MG/2014",
		Mobiles:     []string{"9554154276", "7668624715", "9598657271", "9118123644"},
	}
}

// Text renders the bill summary message. Amounts carry the currency symbol
// and code; the discount line appears only when a discount was applied.
func Text(b *bill.Bill, shop Shop) string {
	sym := b.Currency.Symbol()
	code := string(b.Currency)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s - Bill Summary*\n\n", shop.Name)
	fmt.Fprintf(&sb, "Bill No: %s\n", b.Number)
	fmt.Fprintf(&sb, "Date: %s\n\n", b.Date.Format("02/01/2006"))
	fmt.Fprintf(&sb, "Customer: %s\n", b.Customer.Name)
	if b.Customer.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", b.Customer.Address)
	}
	fmt.Fprintf(&sb, "Mobile: %s\n\n", b.Customer.Mobile)

	sb.WriteString("*Items:*\n")
	for _, line := range b.Lines {
		fmt.Fprintf(&sb, "- %s (Qty: %d) @ %s%s %s\n",
			line.Product.Name, line.Quantity, sym, line.UnitPrice.StringFixed(2), code)
	}

	fmt.Fprintf(&sb, "\nSubtotal: %s%s %s\n", sym, b.Subtotal.StringFixed(2), code)
	if b.Discount.IsPositive() {
		fmt.Fprintf(&sb, "Discount: -%s%s %s\n", sym, b.Discount.StringFixed(2), code)
	}
	fmt.Fprintf(&sb, "*Total Amount: %s%s %s*\n\n", sym, b.Total.StringFixed(2), code)
	fmt.Fprintf(&sb, "Payment Method: %s\n\n", b.PaymentMethod)
	fmt.Fprintf(&sb, "Thank you for your business!\n%s", shop.Name)

	return sb.String()
}

// WhatsAppLink builds a wa.me deep link that opens a chat with the bill's
// customer, message prefilled. The phone segment is digits only.
func WhatsAppLink(b *bill.Bill, shop Shop) (string, error) {
	digits := onlyDigits(b.Customer.Mobile)
	if digits == "" {
		return "", ErrNoMobile
	}
	text := url.QueryEscape(Text(b, shop))
	// QueryEscape emits "+" for spaces; wa.me expects percent encoding.
	text = strings.ReplaceAll(text, "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, text), nil
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
