package types

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EngineStatus represents the current state of the tournament scheduler.
type EngineStatus string

const (
	// EngineStatusRunning indicates the scheduler is ticking periodically.
	EngineStatusRunning EngineStatus = "running"

	// EngineStatusStopped indicates no future ticks are scheduled.
	EngineStatusStopped EngineStatus = "stopped"
)

// TickCounts counts scheduler iterations.
type TickCounts struct {
	// Completed counts ticks that evaluated every agent.
	Completed int `yaml:"completed" json:"completed"`
	// Aborted counts ticks that stopped before evaluating agents because no price was available.
	Aborted int `yaml:"aborted" json:"aborted"`
	// DegradedPrice counts ticks served by a stale cached price after both sources failed.
	DegradedPrice int `yaml:"degraded_price" json:"degraded_price"`
}

// TradeCounts counts executed trades and per-agent failures.
type TradeCounts struct {
	Total         int             `yaml:"total" json:"total"`
	Buys          int             `yaml:"buys" json:"buys"`
	Sells         int             `yaml:"sells" json:"sells"`
	AgentFailures int             `yaml:"agent_failures" json:"agent_failures"`
	SlippageCost  decimal.Decimal `yaml:"slippage_cost" json:"slippage_cost"`
	// CashVolume is the cash side of every trade summed.
	CashVolume decimal.Decimal `yaml:"cash_volume" json:"cash_volume"`
}

// TournamentStats contains running statistics for one tournament run.
type TournamentStats struct {
	// ID is the run identifier (e.g., "run_1").
	ID string `yaml:"id" json:"id"`

	// Date is the date of the current run folder (YYYY-MM-DD).
	Date string `yaml:"date" json:"date"`

	SessionStart time.Time `yaml:"session_start" json:"session_start"`
	LastUpdated  time.Time `yaml:"last_updated" json:"last_updated"`

	Status     EngineStatus `yaml:"status" json:"status"`
	AgentCount int          `yaml:"agent_count" json:"agent_count"`

	Ticks  TickCounts  `yaml:"ticks" json:"ticks"`
	Trades TradeCounts `yaml:"trades" json:"trades"`

	LastPrice       decimal.Decimal `yaml:"last_price" json:"last_price"`
	LastPriceSource PriceSourceType `yaml:"last_price_source" json:"last_price_source"`

	// AuditLogPath is where trade audit records are written, empty when disabled.
	AuditLogPath string `yaml:"audit_log_path" json:"audit_log_path"`
}

// WriteTournamentStats writes tournament statistics to a YAML file.
func WriteTournamentStats(path string, stats TournamentStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tournament stats to file: %w", err)
	}

	return nil
}

// ReadTournamentStats reads tournament statistics from a YAML file.
func ReadTournamentStats(path string) (TournamentStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TournamentStats{}, fmt.Errorf("failed to read tournament stats file: %w", err)
	}

	var stats TournamentStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return TournamentStats{}, fmt.Errorf("failed to unmarshal tournament stats: %w", err)
	}

	return stats, nil
}

// NewTournamentStats creates an empty TournamentStats for a run.
func NewTournamentStats(runID string, sessionStart time.Time) TournamentStats {
	return TournamentStats{
		ID:              runID,
		Date:            sessionStart.Format("2006-01-02"),
		SessionStart:    sessionStart,
		LastUpdated:     sessionStart,
		Status:          EngineStatusStopped,
		AgentCount:      0,
		Ticks:           TickCounts{Completed: 0, Aborted: 0, DegradedPrice: 0},
		Trades:          TradeCounts{Total: 0, Buys: 0, Sells: 0, AgentFailures: 0, SlippageCost: decimal.Zero, CashVolume: decimal.Zero},
		LastPrice:       decimal.Zero,
		LastPriceSource: "",
		AuditLogPath:    "",
	}
}
