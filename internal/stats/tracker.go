// Package stats keeps running tournament statistics and mirrors them to a
// stats.yaml file in the run folder.
package stats

import (
	"sync"
	"time"

	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"go.uber.org/zap"
)

// FileName is the name of the statistics file inside a run folder.
const FileName = "stats.yaml"

// Tracker accumulates tick and trade counters for one run.
type Tracker struct {
	stats      types.TournamentStats
	outputPath string
	now        func() time.Time
	mu         sync.Mutex
	logger     *logger.Logger
}

// Option customizes a Tracker.
type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(log *logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		stats:      types.NewTournamentStats("", time.Time{}),
		outputPath: "",
		now:        time.Now,
		mu:         sync.Mutex{},
		logger:     log,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Initialize resets the counters for a new run. An empty outputPath keeps the
// statistics in memory only.
func (t *Tracker) Initialize(runID string, sessionStart time.Time, outputPath, auditLogPath string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats = types.NewTournamentStats(runID, sessionStart)
	t.stats.AuditLogPath = auditLogPath
	t.outputPath = outputPath

	t.logger.Info("Stats tracker initialized",
		zap.String("run_id", runID),
		zap.String("output", outputPath),
	)
}

func (t *Tracker) SetStatus(status types.EngineStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Status = status
	t.stats.LastUpdated = t.now()
}

func (t *Tracker) SetAgentCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.AgentCount = n
}

// RecordTick counts a tick that evaluated agents at the given price.
func (t *Tracker) RecordTick(sample types.PriceSample, degraded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Ticks.Completed++
	if degraded {
		t.stats.Ticks.DegradedPrice++
	}

	t.stats.LastPrice = sample.Value
	t.stats.LastPriceSource = sample.Source
	t.stats.LastUpdated = t.now()
}

// RecordAbortedTick counts a tick abandoned because no price was available.
func (t *Tracker) RecordAbortedTick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Ticks.Aborted++
	t.stats.LastUpdated = t.now()
}

func (t *Tracker) RecordTrade(trade types.Trade) {
	t.mu.Lock()
	defer t.mu.Unlock()

	acc := &t.stats.Trades
	acc.Total++

	switch trade.Action {
	case types.TradeActionBuy:
		acc.Buys++
	case types.TradeActionSell:
		acc.Sells++
	case types.TradeActionHold:
	}

	acc.SlippageCost = acc.SlippageCost.Add(trade.SlippageCost())
	acc.CashVolume = acc.CashVolume.Add(trade.CashValue)

	t.logger.Debug("Trade recorded",
		zap.String("trade_id", trade.ID),
		zap.String("action", string(trade.Action)),
		zap.Int("total_trades", acc.Total),
	)
}

func (t *Tracker) RecordAgentFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Trades.AgentFailures++
}

// Stats returns a copy of the current statistics.
func (t *Tracker) Stats() types.TournamentStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stats
}

// OutputPath returns where stats.yaml is written, or "" when disabled.
func (t *Tracker) OutputPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.outputPath
}

// Flush writes the statistics to stats.yaml.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.outputPath == "" {
		return nil
	}

	if err := types.WriteTournamentStats(t.outputPath, t.stats); err != nil {
		return errors.Wrap(errors.ErrCodeStatsWriteFailed, "failed to write stats", err)
	}

	return nil
}
