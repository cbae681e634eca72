// Package indicator derives technical indicators from a bounded price history.
// Every function is pure; the history slice is never modified.
package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// EMAPeriod is the window of the EMA exposed to strategies.
	EMAPeriod = 20
	// RSIPeriod is the window of the RSI exposed to strategies.
	RSIPeriod = 14
)

// PreviousPrice returns the sample before the latest one.
func PreviousPrice(history []decimal.Decimal) optional.Option[decimal.Decimal] {
	if len(history) < 2 {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(history[len(history)-2])
}

// Compute derives the indicator set strategies consume.
func Compute(history []decimal.Decimal) types.Indicators {
	return types.Indicators{
		EMA20:         EMA(history, EMAPeriod),
		RSI14:         RSI(history, RSIPeriod),
		PreviousPrice: PreviousPrice(history),
	}
}
