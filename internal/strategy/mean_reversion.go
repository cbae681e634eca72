package strategy

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

var (
	Oversold              = decimal.NewFromInt(30)
	Overbought            = decimal.NewFromInt(70)
	MeanReversionFraction = decimal.RequireFromString("0.3")
)

// MeanReversion buys when RSI signals oversold and sells when it signals overbought.
type MeanReversion struct{}

func NewMeanReversion() *MeanReversion {
	return &MeanReversion{}
}

func (m *MeanReversion) Name() string {
	return "MeanReverter"
}

func (m *MeanReversion) Kind() types.StrategyKind {
	return types.StrategyKindMeanReversion
}

func (m *MeanReversion) Reset() {}

func (m *MeanReversion) Decide(_ context.Context, _ decimal.Decimal, portfolio types.Portfolio, ind types.Indicators) (types.TradeDecision, error) {
	rsi, err := ind.RSI14.Take()
	if err != nil {
		return types.Hold("Insufficient data for RSI calculation"), nil
	}

	switch {
	case rsi.LessThan(Oversold):
		if portfolio.Cash.GreaterThan(minCash) {
			return types.BuyPercentage(MeanReversionFraction,
				fmt.Sprintf("RSI oversold at %s, buying the dip", rsi.StringFixed(1))), nil
		}

		return types.Hold(fmt.Sprintf("RSI oversold at %s but insufficient cash", rsi.StringFixed(1))), nil
	case rsi.GreaterThan(Overbought):
		if portfolio.Asset.GreaterThan(minAsset) {
			return types.SellPercentage(MeanReversionFraction,
				fmt.Sprintf("RSI overbought at %s, taking profit", rsi.StringFixed(1))), nil
		}

		return types.Hold(fmt.Sprintf("RSI overbought at %s but no asset to sell", rsi.StringFixed(1))), nil
	default:
		return types.Hold(fmt.Sprintf("RSI neutral at %s", rsi.StringFixed(1))), nil
	}
}
