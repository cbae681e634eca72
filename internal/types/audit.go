package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// IndicatorSnapshot is the subset of indicators recorded with each trade.
type IndicatorSnapshot struct {
	EMA20 optional.Option[decimal.Decimal] `json:"ema20"`
	RSI14 optional.Option[decimal.Decimal] `json:"rsi14"`
}

// AuditRecord is the append-only log entry written for every executed trade.
type AuditRecord struct {
	Timestamp      time.Time         `json:"timestamp"`
	AgentID        string            `json:"agentId"`
	Action         TradeAction       `json:"action"`
	MarketPrice    decimal.Decimal   `json:"price"`
	ExecutionPrice decimal.Decimal   `json:"executionPrice"`
	AssetAmount    decimal.Decimal   `json:"amount"`
	CashValue      decimal.Decimal   `json:"usdValue"`
	Reason         string            `json:"reason"`
	Indicators     IndicatorSnapshot `json:"indicators"`
	PortfolioAfter Portfolio         `json:"portfolioAfter"`
	TradeID        string            `json:"mockTxHash"`
}

// NewAuditRecord builds the audit entry for a trade executed under the given indicators.
func NewAuditRecord(agentID string, trade Trade, indicators Indicators) AuditRecord {
	return AuditRecord{
		Timestamp:      trade.Timestamp,
		AgentID:        agentID,
		Action:         trade.Action,
		MarketPrice:    trade.MarketPrice,
		ExecutionPrice: trade.ExecutionPrice,
		AssetAmount:    trade.AssetAmount,
		CashValue:      trade.CashValue,
		Reason:         trade.Reason,
		Indicators: IndicatorSnapshot{
			EMA20: indicators.EMA20,
			RSI14: indicators.RSI14,
		},
		PortfolioAfter: trade.PortfolioAfter,
		TradeID:        trade.ID,
	}
}
