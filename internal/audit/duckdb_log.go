package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var auditColumns = []string{
	"trade_id", "agent_id", "timestamp", "action", "market_price", "execution_price",
	"asset_amount", "cash_value", "reason", "ema20", "rsi14", "cash_after", "asset_after",
}

// DuckDBLog keeps audit records in an in-memory DuckDB table and exports the
// table to a parquet file after every append.
type DuckDBLog struct {
	db         *sql.DB
	outputPath string
	logger     *logger.Logger
	sq         squirrel.StatementBuilderType
	mu         sync.Mutex
}

// NewDuckDBLog creates the table and the directory of outputPath.
func NewDuckDBLog(outputPath string, log *logger.Logger) (*DuckDBLog, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to create audit directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to connect to database", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit (
			trade_id TEXT PRIMARY KEY,
			agent_id TEXT,
			timestamp TIMESTAMP,
			action TEXT,
			market_price DOUBLE,
			execution_price DOUBLE,
			asset_amount DOUBLE,
			cash_value DOUBLE,
			reason TEXT,
			ema20 DOUBLE,
			rsi14 DOUBLE,
			cash_after DOUBLE,
			asset_after DOUBLE
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to create audit table", err)
	}

	return &DuckDBLog{
		db:         db,
		outputPath: outputPath,
		logger:     log,
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		mu:         sync.Mutex{},
	}, nil
}

func nullableFloat(o optional.Option[decimal.Decimal]) sql.NullFloat64 {
	v, err := o.Take()
	if err != nil {
		return sql.NullFloat64{Float64: 0, Valid: false}
	}

	return sql.NullFloat64{Float64: v.InexactFloat64(), Valid: true}
}

func fromNullable(v sql.NullFloat64) optional.Option[decimal.Decimal] {
	if !v.Valid {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(decimal.NewFromFloat(v.Float64))
}

func (l *DuckDBLog) Append(record types.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return errors.New(errors.ErrCodeAuditWriteFailed, "audit log is closed")
	}

	_, err := l.sq.
		Insert("audit").
		Columns(auditColumns...).
		Values(
			record.TradeID,
			record.AgentID,
			record.Timestamp,
			string(record.Action),
			record.MarketPrice.InexactFloat64(),
			record.ExecutionPrice.InexactFloat64(),
			record.AssetAmount.InexactFloat64(),
			record.CashValue.InexactFloat64(),
			record.Reason,
			nullableFloat(record.Indicators.EMA20),
			nullableFloat(record.Indicators.RSI14),
			record.PortfolioAfter.Cash.InexactFloat64(),
			record.PortfolioAfter.Asset.InexactFloat64(),
		).
		RunWith(l.db).
		Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeAuditWriteFailed, err, "failed to insert audit record %s", record.TradeID)
	}

	if err := l.exportToParquet(); err != nil {
		return errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to export audit log", err)
	}

	return nil
}

func (l *DuckDBLog) Records(agentID string) ([]types.AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, fmt.Errorf("audit log is closed")
	}

	rows, err := l.sq.
		Select(auditColumns...).
		From("audit").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("timestamp ASC").
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]types.AuditRecord, 0)

	for rows.Next() {
		var (
			record                                      types.AuditRecord
			action                                      string
			market, exec, amount, cashValue, cash, asst float64
			ema, rsi                                    sql.NullFloat64
		)

		err := rows.Scan(
			&record.TradeID,
			&record.AgentID,
			&record.Timestamp,
			&action,
			&market,
			&exec,
			&amount,
			&cashValue,
			&record.Reason,
			&ema,
			&rsi,
			&cash,
			&asst,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		record.Action = types.TradeAction(action)
		record.MarketPrice = decimal.NewFromFloat(market)
		record.ExecutionPrice = decimal.NewFromFloat(exec)
		record.AssetAmount = decimal.NewFromFloat(amount)
		record.CashValue = decimal.NewFromFloat(cashValue)
		record.Indicators = types.IndicatorSnapshot{EMA20: fromNullable(ema), RSI14: fromNullable(rsi)}
		record.PortfolioAfter = types.Portfolio{Cash: decimal.NewFromFloat(cash), Asset: decimal.NewFromFloat(asst)}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}

// TradeCountByAgent returns how many records each agent has.
func (l *DuckDBLog) TradeCountByAgent() (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, fmt.Errorf("audit log is closed")
	}

	rows, err := l.sq.
		Select("agent_id", "COUNT(*)").
		From("audit").
		GroupBy("agent_id").
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			agentID string
			count   int
		)

		if err := rows.Scan(&agentID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}

		counts[agentID] = count
	}

	return counts, rows.Err()
}

func (l *DuckDBLog) Path() string {
	return l.outputPath
}

func (l *DuckDBLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}

	err := l.db.Close()
	l.db = nil

	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

func (l *DuckDBLog) exportToParquet() error {
	_, err := l.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM audit ORDER BY timestamp ASC)
		TO '%s' (FORMAT PARQUET)
	`, l.outputPath))
	if err != nil {
		l.logger.Warn("Failed to export audit parquet", zap.String("path", l.outputPath), zap.Error(err))

		return err
	}

	return nil
}
