package strategy

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

const DCAInterval = 10

var (
	// DCAAmount is the cash spent on every scheduled buy.
	DCAAmount = decimal.NewFromInt(50)

	dcaRemainderFraction = decimal.RequireFromString("0.9")
)

// DCA buys a fixed cash amount every DCAInterval ticks regardless of price.
type DCA struct {
	ticks int
}

func NewDCA() *DCA {
	return &DCA{ticks: 0}
}

func (d *DCA) Name() string {
	return "DCABot"
}

func (d *DCA) Kind() types.StrategyKind {
	return types.StrategyKindDCA
}

func (d *DCA) Reset() {
	d.ticks = 0
}

// Ticks returns how many times Decide has been called since the last reset.
func (d *DCA) Ticks() int {
	return d.ticks
}

func (d *DCA) Decide(_ context.Context, price decimal.Decimal, portfolio types.Portfolio, _ types.Indicators) (types.TradeDecision, error) {
	d.ticks++

	if d.ticks%DCAInterval != 0 {
		remaining := DCAInterval - d.ticks%DCAInterval

		return types.Hold(fmt.Sprintf("Waiting for next DCA interval (%d ticks remaining)", remaining)), nil
	}

	if portfolio.Cash.LessThan(minCash) {
		return types.Hold("Insufficient cash for DCA buy (< $10)"), nil
	}

	if portfolio.Cash.LessThan(DCAAmount) {
		amount := portfolio.Cash.Mul(dcaRemainderFraction)

		return types.BuyAmount(amount, fmt.Sprintf(
			"DCA buy with remaining cash: $%s at $%s", amount.StringFixed(2), price.StringFixed(4),
		)), nil
	}

	return types.BuyAmount(DCAAmount, fmt.Sprintf(
		"Scheduled DCA buy: $%s at $%s", DCAAmount.StringFixed(2), price.StringFixed(4),
	)), nil
}
