package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	arenaerrors "github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TrackerTestSuite struct {
	suite.Suite
	tempDir string
	now     time.Time
	tracker *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (s *TrackerTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "stats_tracker_test_*")
	s.Require().NoError(err)
	s.tempDir = tempDir
	s.now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	s.tracker = NewTracker(logger.NewNopLogger(), WithClock(func() time.Time { return s.now }))
}

func (s *TrackerTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *TrackerTestSuite) buyTrade() types.Trade {
	return types.Trade{
		ID:              "t1",
		Timestamp:       s.now,
		Action:          types.TradeActionBuy,
		MarketPrice:     d("100"),
		ExecutionPrice:  d("100.3"),
		AssetAmount:     d("5"),
		CashValue:       d("501.5"),
		PortfolioBefore: types.Portfolio{Cash: d("1000"), Asset: decimal.Zero},
		PortfolioAfter:  types.Portfolio{Cash: d("498.5"), Asset: d("5")},
		Reason:          "test",
	}
}

func (s *TrackerTestSuite) TestInitializeResetsCounters() {
	s.tracker.RecordAbortedTick()
	s.tracker.Initialize("run_2", s.now, "", "/tmp/audit")

	stats := s.tracker.Stats()
	s.Equal("run_2", stats.ID)
	s.Equal("2025-06-15", stats.Date)
	s.Equal("/tmp/audit", stats.AuditLogPath)
	s.Equal(0, stats.Ticks.Aborted)
	s.Equal(types.EngineStatusStopped, stats.Status)
}

func (s *TrackerTestSuite) TestRecordTicksAndTrades() {
	s.tracker.Initialize("run_1", s.now, "", "")
	s.tracker.SetAgentCount(3)
	s.tracker.SetStatus(types.EngineStatusRunning)

	sample := types.PriceSample{Value: d("100"), Timestamp: s.now, Source: types.PriceSourceCoinGecko}
	s.tracker.RecordTick(sample, false)
	s.tracker.RecordTick(sample, true)
	s.tracker.RecordAbortedTick()

	s.tracker.RecordTrade(s.buyTrade())
	sell := s.buyTrade()
	sell.Action = types.TradeActionSell
	sell.CashValue = d("100")
	sell.PortfolioBefore = types.Portfolio{Cash: decimal.Zero, Asset: d("1")}
	sell.PortfolioAfter = types.Portfolio{Cash: d("99.7"), Asset: decimal.Zero}
	s.tracker.RecordTrade(sell)
	s.tracker.RecordAgentFailure()

	stats := s.tracker.Stats()
	s.Equal(3, stats.AgentCount)
	s.Equal(types.EngineStatusRunning, stats.Status)
	s.Equal(types.TickCounts{Completed: 2, Aborted: 1, DegradedPrice: 1}, stats.Ticks)
	s.Equal(2, stats.Trades.Total)
	s.Equal(1, stats.Trades.Buys)
	s.Equal(1, stats.Trades.Sells)
	s.Equal(1, stats.Trades.AgentFailures)
	s.True(stats.Trades.SlippageCost.Equal(d("1.8")), "got %s", stats.Trades.SlippageCost)
	s.True(stats.Trades.CashVolume.Equal(d("601.5")))
	s.True(stats.LastPrice.Equal(d("100")))
	s.Equal(types.PriceSourceCoinGecko, stats.LastPriceSource)
}

func (s *TrackerTestSuite) TestFlushWritesYAML() {
	path := filepath.Join(s.tempDir, FileName)
	s.tracker.Initialize("run_1", s.now, path, "")
	s.tracker.RecordTrade(s.buyTrade())

	s.Require().NoError(s.tracker.Flush())
	s.Equal(path, s.tracker.OutputPath())

	stats, err := types.ReadTournamentStats(path)
	s.Require().NoError(err)
	s.Equal("run_1", stats.ID)
	s.Equal(1, stats.Trades.Total)
	s.True(stats.Trades.CashVolume.Equal(d("501.5")))
}

func (s *TrackerTestSuite) TestFlushWithoutPathIsNoop() {
	s.tracker.Initialize("run_1", s.now, "", "")
	s.NoError(s.tracker.Flush())
}

func (s *TrackerTestSuite) TestFlushFailure() {
	s.tracker.Initialize("run_1", s.now, filepath.Join(s.tempDir, "missing", FileName), "")

	err := s.tracker.Flush()
	s.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeStatsWriteFailed))
}
