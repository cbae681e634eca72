package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RSI calculates the relative strength index over the last period+1 samples.
// Returns None when fewer than period+1 samples exist. A window without any
// losses yields exactly 100.
func RSI(history []decimal.Decimal, period int) optional.Option[decimal.Decimal] {
	if period <= 0 || len(history) < period+1 {
		return optional.None[decimal.Decimal]()
	}

	window := history[len(history)-period-1:]

	gains := decimal.Zero
	losses := decimal.Zero

	for i := 1; i < len(window); i++ {
		delta := window[i].Sub(window[i-1])
		if delta.IsPositive() {
			gains = gains.Add(delta)
		} else {
			losses = losses.Add(delta.Abs())
		}
	}

	if losses.IsZero() {
		return optional.Some(hundred)
	}

	periodDec := decimal.NewFromInt(int64(period))
	avgGain := gains.Div(periodDec)
	avgLoss := losses.Div(periodDec)
	rs := avgGain.Div(avgLoss)

	return optional.Some(hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs))))
}
