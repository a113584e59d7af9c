// Package types provides common value types shared across domains.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is a dual-currency amount. The business trades in US dollars and
// Zimbabwe dollars side by side; the two tracks are recorded independently
// and are never converted into each other.
type Money struct {
	USD decimal.Decimal `json:"usd"`
	ZWL decimal.Decimal `json:"zwl"`
}

// NewMoney creates a Money from both currency tracks.
func NewMoney(usd, zwl decimal.Decimal) Money {
	return Money{USD: usd, ZWL: zwl}
}

// MustMoney creates a Money from decimal strings, panics on parse error.
// Use only for constants and tests.
func MustMoney(usd, zwl string) Money {
	return Money{
		USD: decimal.RequireFromString(usd),
		ZWL: decimal.RequireFromString(zwl),
	}
}

// ZeroMoney returns a Money with both tracks at zero.
func ZeroMoney() Money {
	return Money{USD: decimal.Zero, ZWL: decimal.Zero}
}

// Add returns m + o per currency.
func (m Money) Add(o Money) Money {
	return Money{USD: m.USD.Add(o.USD), ZWL: m.ZWL.Add(o.ZWL)}
}

// Sub returns m - o per currency.
func (m Money) Sub(o Money) Money {
	return Money{USD: m.USD.Sub(o.USD), ZWL: m.ZWL.Sub(o.ZWL)}
}

// MulInt returns m scaled by an integer quantity per currency.
func (m Money) MulInt(qty int64) Money {
	q := decimal.NewFromInt(qty)
	return Money{USD: m.USD.Mul(q), ZWL: m.ZWL.Mul(q)}
}

// DivInt returns m divided by an integer quantity per currency.
// Caller must guarantee qty != 0.
func (m Money) DivInt(qty int64) Money {
	q := decimal.NewFromInt(qty)
	return Money{USD: m.USD.Div(q), ZWL: m.ZWL.Div(q)}
}

// IsZero reports whether both tracks are zero.
func (m Money) IsZero() bool {
	return m.USD.IsZero() && m.ZWL.IsZero()
}

// IsNegative reports whether either track is negative.
func (m Money) IsNegative() bool {
	return m.USD.IsNegative() || m.ZWL.IsNegative()
}

// Equal reports per-currency equality.
func (m Money) Equal(o Money) bool {
	return m.USD.Equal(o.USD) && m.ZWL.Equal(o.ZWL)
}
