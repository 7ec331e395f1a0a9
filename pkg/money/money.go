package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxScale is the number of fractional digits an amount may carry.
const MaxScale = 8

// ErrInvalidAmount is returned when an amount is malformed, non-positive or too precise.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrUnknownCurrency is returned for currency codes the platform does not hold balances in.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is an upper-case currency or points code.
type Currency string

const (
	USDT Currency = "USDT"
	INR  Currency = "INR"
	DLX  Currency = "DLX"
)

var knownCurrencies = map[Currency]struct{}{
	USDT: {},
	INR:  {},
	DLX:  {},
}

// ParseCurrency normalises s and checks it against the supported set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownCurrencies[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// Amount is a strictly positive decimal value in a single currency.
type Amount struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"amount"`
}

// NewAmount validates v and binds it to c.
func NewAmount(c Currency, v decimal.Decimal) (Amount, error) {
	if _, ok := knownCurrencies[c]; !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, c)
	}
	if !v.IsPositive() {
		return Amount{}, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, v)
	}
	if v.Exponent() < -MaxScale && !v.Equal(v.Truncate(MaxScale)) {
		return Amount{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, v, MaxScale)
	}
	return Amount{Currency: c, Value: v}, nil
}

// ParseAmount parses a currency code and a decimal string into an Amount.
func ParseAmount(currency, value string) (Amount, error) {
	c, err := ParseCurrency(currency)
	if err != nil {
		return Amount{}, err
	}
	v, err := ParseDecimal(value)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(c, v)
}

// ParseDecimal parses a plain decimal string. Empty input is rejected rather than read as zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseFees parses a non-negative fee value; an empty string means no fee.
func ParseFees(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: fees %s are negative", ErrInvalidAmount, d)
	}
	return d, nil
}

