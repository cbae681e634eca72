package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaderboardEntry is one ranked row of the leaderboard. Entries are derived
// from ledger state on demand and never stored.
type LeaderboardEntry struct {
	Rank           int             `json:"rank"`
	AgentID        string          `json:"agentId"`
	OwnerAddress   string          `json:"playerAddress"`
	StrategyKind   StrategyKind    `json:"strategyType"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	// ROI is a percentage, e.g. 15.5 means +15.5%.
	ROI        decimal.Decimal `json:"roi"`
	TradeCount int             `json:"tradeCount"`
}

// LeaderboardStatistics aggregates the entries of one leaderboard.
type LeaderboardStatistics struct {
	TotalAgents int             `json:"totalAgents"`
	AverageROI  decimal.Decimal `json:"averageROI"`
	MaxROI      decimal.Decimal `json:"maxROI"`
	MinROI      decimal.Decimal `json:"minROI"`
	TotalTrades int             `json:"totalTrades"`
}

// Leaderboard is a ranked snapshot of every agent.
type Leaderboard struct {
	Entries     []LeaderboardEntry    `json:"leaderboard"`
	Statistics  LeaderboardStatistics `json:"statistics"`
	LastPrice   decimal.Decimal       `json:"lastPrice"`
	GeneratedAt time.Time             `json:"generatedAt"`
}
