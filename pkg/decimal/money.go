package decimal

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money represents a salary amount in whole-currency statements
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// RoundWhole rounds to the nearest whole currency unit, halves away from zero
func (m Money) RoundWhole() Money {
	return Money{m.Decimal.Round(0)}
}

// RoundToHundred rounds to the nearest multiple of 100 (pay matrix cells)
func (m Money) RoundToHundred() Money {
	return Money{m.Decimal.Div(hundred).Round(0).Mul(hundred)}
}

// Percent returns rate percent of the amount (rate 42 means 42%)
func (m Money) Percent(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(rate).Div(hundred)}
}

// Prorate scales the amount by a fraction in [0,1]
func (m Money) Prorate(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Sum adds up amounts
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal)
	}
	return Money{total}
}

// String returns the whole-unit representation
func (m Money) String() string {
	return m.Decimal.StringFixed(0)
}

// Format formats the amount with the rupee sign and Indian digit grouping
func (m Money) Format() string {
	return "₹" + GroupIndian(m.Decimal.Round(0))
}

// GroupIndian renders a whole number with lakh/crore grouping (12,34,567).
func GroupIndian(d decimal.Decimal) string {
	s := d.Abs().StringFixed(0)
	sign := ""
	if d.IsNegative() && s != "0" {
		sign = "-"
	}
	if len(s) <= 3 {
		return sign + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	out := ""
	for _, p := range parts {
		out += p + ","
	}
	return sign + out + tail
}
