package domain

import (
	"fmt"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency assumed for fiscal documents when none is given.
const DefaultCurrency = "BRL"

// Money is an immutable monetary amount tagged with a currency code.
// All arithmetic returns new values; operands must share the same currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value after validating the currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("%w: currency code must be 3 letters, got %q", apperrors.ErrValidation, currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal string into a Money value.
func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q: %v", apperrors.ErrValidation, amount, err)
	}
	return NewMoney(d, currency)
}

// MustMoney builds a Money value and panics on invalid input. Intended for
// constants and test fixtures only.
func MustMoney(amount string, currency string) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the raw decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() string { return m.currency }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) checkCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", apperrors.ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other, failing when currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other, failing when currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MulRate multiplies the amount by a rate and rounds to 2 decimal places,
// which is the precision used for persistence and statutory credit values.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(2), currency: m.currency}
}

// Round2 returns the amount rounded to 2 decimal places.
func (m Money) Round2() Money {
	return Money{amount: m.amount.Round(2), currency: m.currency}
}

// Equal reports whether both the amount and the currency match.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount with 2 decimal places, e.g. "BRL 92.50".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(2))
}
