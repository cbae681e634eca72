// Package leaderboard ranks agents by return on their initial cash.
package leaderboard

import (
	"sort"

	"github.com/rxtech-lab/argo-arena/internal/portfolio"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

// Rank builds the leaderboard for the given agents marked at lastPrice.
// Agents are ordered by ROI descending; agents with equal ROI keep the order
// they were passed in, which is registration order when called by the engine.
// GeneratedAt is left for the caller to fill.
func Rank(records []types.AgentRecord, lastPrice decimal.Decimal) types.Leaderboard {
	entries := make([]types.LeaderboardEntry, 0, len(records))

	for _, r := range records {
		value := r.Portfolio.Value(lastPrice)

		entries = append(entries, types.LeaderboardEntry{
			Rank:           0,
			AgentID:        r.AgentID,
			OwnerAddress:   r.OwnerAddress,
			StrategyKind:   r.StrategyKind,
			PortfolioValue: value,
			ROI:            portfolio.ROI(value, r.InitialCash),
			TradeCount:     len(r.Trades),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ROI.GreaterThan(entries[j].ROI)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return types.Leaderboard{
		Entries:    entries,
		Statistics: Statistics(entries),
		LastPrice:  lastPrice,
	}
}

// Statistics aggregates ranked entries. All values are zero for no entries.
func Statistics(entries []types.LeaderboardEntry) types.LeaderboardStatistics {
	stats := types.LeaderboardStatistics{
		TotalAgents: len(entries),
		AverageROI:  decimal.Zero,
		MaxROI:      decimal.Zero,
		MinROI:      decimal.Zero,
		TotalTrades: 0,
	}

	if len(entries) == 0 {
		return stats
	}

	sum := decimal.Zero
	stats.MaxROI = entries[0].ROI
	stats.MinROI = entries[0].ROI

	for _, e := range entries {
		sum = sum.Add(e.ROI)
		stats.MaxROI = decimal.Max(stats.MaxROI, e.ROI)
		stats.MinROI = decimal.Min(stats.MinROI, e.ROI)
		stats.TotalTrades += e.TradeCount
	}

	stats.AverageROI = sum.Div(decimal.NewFromInt(int64(len(entries))))

	return stats
}
