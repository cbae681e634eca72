package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// EMA calculates the exponential moving average over the whole history.
// The seed is the simple average of the first period samples; every later
// sample is folded in with multiplier 2 / (period + 1).
// Returns None when the history is shorter than period.
func EMA(history []decimal.Decimal, period int) optional.Option[decimal.Decimal] {
	if period <= 0 || len(history) < period {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(calculateExponentialMovingAverage(history, period))
}

// calculateSimpleMovingAverage returns the arithmetic mean of data.
func calculateSimpleMovingAverage(data []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, data...).Div(decimal.NewFromInt(int64(len(data))))
}

// where Multiplier = 2 / (Period + 1).
func calculateExponentialMovingAverage(data []decimal.Decimal, period int) decimal.Decimal {
	multiplier := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))

	ema := calculateSimpleMovingAverage(data[:period])
	for _, sample := range data[period:] {
		ema = sample.Sub(ema).Mul(multiplier).Add(ema)
	}

	return ema
}
