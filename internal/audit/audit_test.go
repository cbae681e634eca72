package audit

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	arenaerrors "github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AuditTestSuite struct {
	suite.Suite
	tempDir string
	now     time.Time
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditTestSuite))
}

func (suite *AuditTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "audit_test_*")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
	suite.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *AuditTestSuite) TearDownTest() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *AuditTestSuite) record(agentID, tradeID string, offset time.Duration) types.AuditRecord {
	return types.AuditRecord{
		Timestamp:      suite.now.Add(offset),
		AgentID:        agentID,
		Action:         types.TradeActionBuy,
		MarketPrice:    d("100"),
		ExecutionPrice: d("100.3"),
		AssetAmount:    d("4.5"),
		CashValue:      d("500"),
		Reason:         "cross above",
		Indicators: types.IndicatorSnapshot{
			EMA20: optional.Some(d("99.5")),
			RSI14: optional.None[decimal.Decimal](),
		},
		PortfolioAfter: types.Portfolio{Cash: d("500"), Asset: d("4.5")},
		TradeID:        tradeID,
	}
}

func (suite *AuditTestSuite) TestJSONLWritesOneFilePerAgent() {
	log, err := NewJSONLLog(filepath.Join(suite.tempDir, "audit"))
	suite.Require().NoError(err)
	defer log.Close()

	suite.Require().NoError(log.Append(suite.record("alpha", "t1", 0)))
	suite.Require().NoError(log.Append(suite.record("alpha", "t2", time.Minute)))
	suite.Require().NoError(log.Append(suite.record("beta", "t3", 0)))

	suite.FileExists(filepath.Join(suite.tempDir, "audit", "alpha.jsonl"))
	suite.FileExists(filepath.Join(suite.tempDir, "audit", "beta.jsonl"))

	records, err := log.Records("alpha")
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal("t1", records[0].TradeID)
	suite.Equal("t2", records[1].TradeID)
	suite.True(records[0].ExecutionPrice.Equal(d("100.3")))
	suite.True(records[0].Indicators.EMA20.IsSome())
	suite.True(records[0].Indicators.RSI14.IsNone())

	content, err := os.ReadFile(filepath.Join(suite.tempDir, "audit", "alpha.jsonl"))
	suite.Require().NoError(err)
	suite.Contains(string(content), `"mockTxHash":"t1"`)
	suite.Contains(string(content), `"agentId":"alpha"`)
}

func (suite *AuditTestSuite) TestJSONLRecordsOfUnknownAgentIsEmpty() {
	log, err := NewJSONLLog(suite.tempDir)
	suite.Require().NoError(err)

	records, err := log.Records("nobody")
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *AuditTestSuite) TestJSONLConcurrentAppends() {
	log, err := NewJSONLLog(suite.tempDir)
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suite.NoError(log.Append(suite.record("alpha", "t"+string(rune('a'+i)), time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	records, err := log.Records("alpha")
	suite.Require().NoError(err)
	suite.Len(records, 20)
}

func (suite *AuditTestSuite) TestDuckDBLogExportsParquet() {
	path := filepath.Join(suite.tempDir, "run_1", ParquetFileName)
	log, err := NewDuckDBLog(path, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer log.Close()

	suite.Require().NoError(log.Append(suite.record("alpha", "t1", 0)))
	suite.Require().NoError(log.Append(suite.record("beta", "t2", time.Second)))
	suite.Require().NoError(log.Append(suite.record("alpha", "t3", 2*time.Second)))

	suite.FileExists(path)
	suite.Equal(path, log.Path())

	records, err := log.Records("alpha")
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal("t1", records[0].TradeID)
	suite.Equal(types.TradeActionBuy, records[0].Action)
	suite.True(records[0].ExecutionPrice.Equal(d("100.3")))
	suite.True(records[0].PortfolioAfter.Asset.Equal(d("4.5")))
	suite.True(records[0].Indicators.RSI14.IsNone())

	ema, err := records[0].Indicators.EMA20.Take()
	suite.Require().NoError(err)
	suite.True(ema.Equal(d("99.5")))

	counts, err := log.TradeCountByAgent()
	suite.Require().NoError(err)
	suite.Equal(map[string]int{"alpha": 2, "beta": 1}, counts)
}

func (suite *AuditTestSuite) TestDuckDBLogRejectsDuplicateTradeID() {
	log, err := NewDuckDBLog(filepath.Join(suite.tempDir, ParquetFileName), nil)
	suite.Require().NoError(err)
	defer log.Close()

	suite.Require().NoError(log.Append(suite.record("alpha", "t1", 0)))
	err = log.Append(suite.record("alpha", "t1", time.Second))
	suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeAuditWriteFailed))
}

func (suite *AuditTestSuite) TestDuckDBLogClosed() {
	log, err := NewDuckDBLog(filepath.Join(suite.tempDir, ParquetFileName), nil)
	suite.Require().NoError(err)
	suite.Require().NoError(log.Close())
	suite.NoError(log.Close())

	err = log.Append(suite.record("alpha", "t1", 0))
	suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeAuditWriteFailed))

	_, err = log.Records("alpha")
	suite.Error(err)
}

func (suite *AuditTestSuite) TestMemoryAndNopLogs() {
	mem := NewMemoryLog()
	suite.Require().NoError(mem.Append(suite.record("alpha", "t1", 0)))
	suite.Require().NoError(mem.Append(suite.record("beta", "t2", 0)))

	records, err := mem.Records("beta")
	suite.Require().NoError(err)
	suite.Len(records, 1)
	suite.Len(mem.All(), 2)
	suite.Empty(mem.Path())

	nop := NewNopLog()
	suite.NoError(nop.Append(suite.record("alpha", "t1", 0)))
	records, err = nop.Records("alpha")
	suite.NoError(err)
	suite.Empty(records)
}

func (suite *AuditTestSuite) TestNewSelectsFormat() {
	jsonl, err := New(FormatJSONL, suite.tempDir, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.IsType(&JSONLLog{}, jsonl)

	duck, err := New(FormatDuckDB, suite.tempDir, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer duck.Close()
	suite.Equal(filepath.Join(suite.tempDir, ParquetFileName), duck.Path())

	nop, err := New(FormatNone, suite.tempDir, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.IsType(NopLog{}, nop)

	_, err = New("csv", suite.tempDir, logger.NewNopLogger())
	suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeInvalidConfiguration))
}
