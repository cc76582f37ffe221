package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/money_swap_app/internal/apperrors"
)

// Currency is one of the supported currency codes.
type Currency string

const (
	ARS Currency = "ARS" // Argentine Peso
	USD Currency = "USD" // US Dollar
	BTC Currency = "BTC" // Bitcoin
	ETH Currency = "ETH" // Ethereum
)

// CurrencyClass groups currencies by how they are priced.
type CurrencyClass string

const (
	Fiat   CurrencyClass = "FIAT"
	Crypto CurrencyClass = "CRYPTO"
)

// currencyClasses is the single source of truth for the supported set.
var currencyClasses = map[Currency]CurrencyClass{
	ARS: Fiat,
	USD: Fiat,
	BTC: Crypto,
	ETH: Crypto,
}

// SupportedCurrencies returns the supported set in a stable order.
func SupportedCurrencies() []Currency {
	return []Currency{ARS, USD, BTC, ETH}
}

// ParseCurrency normalizes a code and checks it against the supported set.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// IsSupported reports whether c is in the supported set.
func (c Currency) IsSupported() bool {
	_, ok := currencyClasses[c]
	return ok
}

// Class returns the currency class. Unsupported codes return "".
func (c Currency) Class() CurrencyClass {
	return currencyClasses[c]
}

func (c Currency) IsFiat() bool   { return c.Class() == Fiat }
func (c Currency) IsCrypto() bool { return c.Class() == Crypto }

func (c Currency) String() string { return string(c) }
