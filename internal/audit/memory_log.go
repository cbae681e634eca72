package audit

import (
	"sync"

	"github.com/rxtech-lab/argo-arena/internal/types"
)

// MemoryLog keeps records in memory. Used for dry runs and tests.
type MemoryLog struct {
	mu      sync.RWMutex
	records []types.AuditRecord
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		mu:      sync.RWMutex{},
		records: make([]types.AuditRecord, 0),
	}
}

func (l *MemoryLog) Append(record types.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)

	return nil
}

func (l *MemoryLog) Records(agentID string) ([]types.AuditRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.AuditRecord, 0)

	for _, r := range l.records {
		if r.AgentID == agentID {
			out = append(out, r)
		}
	}

	return out, nil
}

// All returns every record in append order.
func (l *MemoryLog) All() []types.AuditRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.AuditRecord, len(l.records))
	copy(out, l.records)

	return out
}

func (l *MemoryLog) Path() string {
	return ""
}

func (l *MemoryLog) Close() error {
	return nil
}

// NopLog discards every record.
type NopLog struct{}

func NewNopLog() NopLog {
	return NopLog{}
}

func (NopLog) Append(types.AuditRecord) error { return nil }

func (NopLog) Records(string) ([]types.AuditRecord, error) { return []types.AuditRecord{}, nil }

func (NopLog) Path() string { return "" }

func (NopLog) Close() error { return nil }
