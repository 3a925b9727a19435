// Package currency models the two display currencies of the shop. All
// stored prices are Indian rupees; Nepali rupee amounts are derived at
// display time from a configurable rate and never persisted.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is a supported display currency.
type Currency string

const (
	INR Currency = "INR"
	NPR Currency = "NPR"
)

// DefaultNPRRate is the fallback INR to NPR conversion rate used when no
// rate is configured.
const DefaultNPRRate = "1.6"

// ErrUnknownCurrency is returned for currencies other than INR and NPR.
var ErrUnknownCurrency = fmt.Errorf("unknown currency")

// Parse validates a currency code. The empty string defaults to INR.
func Parse(s string) (Currency, error) {
	switch Currency(s) {
	case "":
		return INR, nil
	case INR:
		return INR, nil
	case NPR:
		return NPR, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	if c == NPR {
		return "रु"
	}
	return "₹"
}

// Converter converts base-currency amounts into a display currency.
type Converter struct {
	nprRate decimal.Decimal
}

// NewConverter builds a Converter from a rate string such as "1.6".
// Non-positive or unparseable rates are rejected.
func NewConverter(nprRate string) (Converter, error) {
	rate, err := decimal.NewFromString(nprRate)
	if err != nil {
		return Converter{}, fmt.Errorf("parse NPR rate %q: %w", nprRate, err)
	}
	if !rate.IsPositive() {
		return Converter{}, fmt.Errorf("NPR rate must be positive, got %s", rate)
	}
	return Converter{nprRate: rate}, nil
}

// NewDefaultConverter builds a Converter with the default NPR rate.
func NewDefaultConverter() Converter {
	conv, err := NewConverter(DefaultNPRRate)
	if err != nil {
		panic(err)
	}
	return conv
}

// FromINR converts an INR amount into the target currency. INR amounts
// pass through unchanged.
func (c Converter) FromINR(amount decimal.Decimal, target Currency) decimal.Decimal {
	if target == NPR {
		return amount.Mul(c.nprRate)
	}
	return amount
}
