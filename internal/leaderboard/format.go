package leaderboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-arena/internal/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	positiveStyle = cellStyle.Foreground(lipgloss.Color("#10B981"))
	negativeStyle = cellStyle.Foreground(lipgloss.Color("#EF4444"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

const roiColumn = 4

// Format renders the leaderboard as a terminal table followed by a statistics line.
func Format(lb types.Leaderboard) string {
	rows := make([][]string, 0, len(lb.Entries))
	for _, e := range lb.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.AgentID,
			string(e.StrategyKind),
			e.PortfolioValue.StringFixed(2),
			formatROI(e.ROI.StringFixed(2)),
			strconv.Itoa(e.TradeCount),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "AGENT", "STRATEGY", "VALUE", "ROI", "TRADES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if col == roiColumn && row >= 0 && row < len(lb.Entries) {
				switch {
				case lb.Entries[row].ROI.IsPositive():
					return positiveStyle
				case lb.Entries[row].ROI.IsNegative():
					return negativeStyle
				}
			}

			return cellStyle
		})

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Leaderboard @ %s", lb.LastPrice.StringFixed(4))))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"agents=%d trades=%d avg=%s%% max=%s%% min=%s%%",
		lb.Statistics.TotalAgents,
		lb.Statistics.TotalTrades,
		lb.Statistics.AverageROI.StringFixed(2),
		lb.Statistics.MaxROI.StringFixed(2),
		lb.Statistics.MinROI.StringFixed(2),
	)))

	return b.String()
}

func formatROI(roi string) string {
	if strings.HasPrefix(roi, "-") {
		return roi + "%"
	}

	return "+" + roi + "%"
}
