// Package audit stores the append-only record of every executed trade.
// Audit output is write-only from the engine's point of view; nothing in the
// tournament reads it back into engine state.
package audit

import (
	"path/filepath"

	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
)

// Format selects an audit log implementation.
type Format string

const (
	FormatJSONL  Format = "jsonl"
	FormatDuckDB Format = "duckdb"
	FormatNone   Format = "none"
)

// ParquetFileName is the file the DuckDB log exports to inside the output directory.
const ParquetFileName = "trades.parquet"

// Log is the interface for storing trade audit records.
// Implementations must be safe for concurrent use.
type Log interface {
	// Append stores one record.
	Append(record types.AuditRecord) error
	// Records returns the stored records of one agent in append order.
	Records(agentID string) ([]types.AuditRecord, error)
	// Path returns where the log is written, or "" for in-memory logs.
	Path() string
	// Close releases any resources held by the log.
	Close() error
}

// New creates the audit log for the given format writing under dir.
func New(format Format, dir string, log *logger.Logger) (Log, error) {
	switch format {
	case FormatJSONL:
		return NewJSONLLog(dir)
	case FormatDuckDB:
		return NewDuckDBLog(filepath.Join(dir, ParquetFileName), log)
	case FormatNone:
		return NewNopLog(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown audit format %q", format)
	}
}
