package strategy

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

// MomentumFraction is the share of the balance moved on a crossing.
var MomentumFraction = decimal.RequireFromString("0.5")

// Momentum trades crossings of the price over its 20 period EMA.
// It remembers which side of the EMA the previous evaluated tick was on, so a
// crossing is detected even when the previous price itself is unavailable.
type Momentum struct {
	previousAboveEMA optional.Option[bool]
}

func NewMomentum() *Momentum {
	return &Momentum{
		previousAboveEMA: optional.None[bool](),
	}
}

func (m *Momentum) Name() string {
	return "MomentumMax"
}

func (m *Momentum) Kind() types.StrategyKind {
	return types.StrategyKindMomentum
}

func (m *Momentum) Reset() {
	m.previousAboveEMA = optional.None[bool]()
}

func (m *Momentum) Decide(_ context.Context, price decimal.Decimal, portfolio types.Portfolio, ind types.Indicators) (types.TradeDecision, error) {
	ema, err := ind.EMA20.Take()
	if err != nil || ind.PreviousPrice.IsNone() {
		return types.Hold("Insufficient data for EMA calculation"), nil
	}

	above := price.GreaterThan(ema)
	previous, err := m.previousAboveEMA.Take()
	m.previousAboveEMA = optional.Some(above)

	if err != nil {
		return types.Hold("Establishing baseline"), nil
	}

	if above && !previous {
		if portfolio.Cash.GreaterThan(minCash) {
			return types.BuyPercentage(MomentumFraction, fmt.Sprintf(
				"Bullish crossover: price %s crossed above EMA20 %s",
				price.StringFixed(4), ema.StringFixed(4),
			)), nil
		}

		return types.Hold("Bullish crossover but insufficient cash"), nil
	}

	if !above && previous {
		if portfolio.Asset.GreaterThan(minAsset) {
			return types.SellPercentage(MomentumFraction, fmt.Sprintf(
				"Bearish crossover: price %s crossed below EMA20 %s",
				price.StringFixed(4), ema.StringFixed(4),
			)), nil
		}

		return types.Hold("Bearish crossover but no asset to sell"), nil
	}

	side := "below"
	if above {
		side = "above"
	}

	return types.Hold(fmt.Sprintf("No crossover, price remains %s EMA20", side)), nil
}
