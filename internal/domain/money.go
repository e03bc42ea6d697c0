package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency. Two Money values are
// interchangeable whenever Equals reports true.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates and builds a Money value. The amount must not be
// negative and the currency must not be blank. The currency is stored
// trimmed of surrounding whitespace.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.TrimSpace(currency)
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: money amount cannot be negative", ErrValidation)
	}
	if currency == "" {
		return Money{}, fmt.Errorf("%w: money currency cannot be empty", ErrValidation)
	}
	return Money{amount: amount, currency: currency}, nil
}

// Amount returns the numeric amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// Equals reports whether both amount and currency match. Amounts compare
// numerically, so 5 and 5.00 are the same money.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

// String renders the money as "<amount> <currency>".
func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}
