package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Indicators holds the technical indicators derived from the price history.
// A value is None when the history is too short for its window.
type Indicators struct {
	EMA20         optional.Option[decimal.Decimal] `json:"ema20"`
	RSI14         optional.Option[decimal.Decimal] `json:"rsi14"`
	PreviousPrice optional.Option[decimal.Decimal] `json:"previousPrice"`
}

// NoIndicators returns an Indicators value with every field absent.
func NoIndicators() Indicators {
	return Indicators{
		EMA20:         optional.None[decimal.Decimal](),
		RSI14:         optional.None[decimal.Decimal](),
		PreviousPrice: optional.None[decimal.Decimal](),
	}
}
