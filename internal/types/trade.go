package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an executed buy or sell. Trades are append-only per agent.
type Trade struct {
	ID        string      `json:"id" yaml:"id"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
	Action    TradeAction `json:"action" yaml:"action"`
	// MarketPrice is the oracle price the trade was decided on.
	MarketPrice decimal.Decimal `json:"price" yaml:"price"`
	// ExecutionPrice is MarketPrice adjusted by slippage.
	ExecutionPrice  decimal.Decimal `json:"executionPrice" yaml:"execution_price"`
	AssetAmount     decimal.Decimal `json:"amount" yaml:"amount"`
	CashValue       decimal.Decimal `json:"usdValue" yaml:"cash_value"`
	PortfolioBefore Portfolio       `json:"portfolioBefore" yaml:"portfolio_before"`
	PortfolioAfter  Portfolio       `json:"portfolioAfter" yaml:"portfolio_after"`
	Reason          string          `json:"reason" yaml:"reason"`
}

// SlippageCost returns how much portfolio value the trade gave up,
// measured at the market price. It is never negative.
func (t Trade) SlippageCost() decimal.Decimal {
	before := t.PortfolioBefore.Value(t.MarketPrice)
	after := t.PortfolioAfter.Value(t.MarketPrice)

	return before.Sub(after)
}
