package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
	TradeActionHold TradeAction = "hold"
)

// TradeDecision is what a strategy wants to do on the current tick.
// Percentage is a fraction in [0, 1] of the relevant balance; FixedAmount is a
// cash amount and only applies to buys. When both are None the ledger uses its
// default fraction.
type TradeDecision struct {
	Action      TradeAction                      `json:"action"`
	Percentage  optional.Option[decimal.Decimal] `json:"percentage"`
	FixedAmount optional.Option[decimal.Decimal] `json:"amount"`
	Reason      string                           `json:"reason"`
}

// Hold creates a hold decision.
func Hold(reason string) TradeDecision {
	return TradeDecision{
		Action:      TradeActionHold,
		Percentage:  optional.None[decimal.Decimal](),
		FixedAmount: optional.None[decimal.Decimal](),
		Reason:      reason,
	}
}

// BuyPercentage creates a buy decision spending a fraction of available cash.
func BuyPercentage(pct decimal.Decimal, reason string) TradeDecision {
	return TradeDecision{
		Action:      TradeActionBuy,
		Percentage:  optional.Some(pct),
		FixedAmount: optional.None[decimal.Decimal](),
		Reason:      reason,
	}
}

// BuyAmount creates a buy decision spending a fixed cash amount.
func BuyAmount(amount decimal.Decimal, reason string) TradeDecision {
	return TradeDecision{
		Action:      TradeActionBuy,
		Percentage:  optional.None[decimal.Decimal](),
		FixedAmount: optional.Some(amount),
		Reason:      reason,
	}
}

// SellPercentage creates a sell decision for a fraction of the held asset.
func SellPercentage(pct decimal.Decimal, reason string) TradeDecision {
	return TradeDecision{
		Action:      TradeActionSell,
		Percentage:  optional.Some(pct),
		FixedAmount: optional.None[decimal.Decimal](),
		Reason:      reason,
	}
}

// IsHold reports whether the decision results in no trade.
func (d TradeDecision) IsHold() bool {
	return d.Action == TradeActionHold
}
