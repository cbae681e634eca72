package types

import "github.com/shopspring/decimal"

// Portfolio is a cash/asset balance pair. Both sides are never negative.
type Portfolio struct {
	Cash  decimal.Decimal `json:"cash" yaml:"cash"`
	Asset decimal.Decimal `json:"asset" yaml:"asset"`
}

// NewPortfolio creates a portfolio holding only cash.
func NewPortfolio(cash decimal.Decimal) Portfolio {
	return Portfolio{
		Cash:  cash,
		Asset: decimal.Zero,
	}
}

// Value returns cash + asset * price.
func (p Portfolio) Value(price decimal.Decimal) decimal.Decimal {
	return p.Cash.Add(p.Asset.Mul(price))
}

// Equal reports whether both balances are numerically equal.
func (p Portfolio) Equal(other Portfolio) bool {
	return p.Cash.Equal(other.Cash) && p.Asset.Equal(other.Asset)
}
