package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
)

// JSONLLog writes one JSON object per line to {dir}/{agentId}.jsonl.
type JSONLLog struct {
	dir string
	mu  sync.Mutex
}

// NewJSONLLog creates the output directory if needed.
func NewJSONLLog(dir string) (*JSONLLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to create audit directory", err)
	}

	return &JSONLLog{
		dir: dir,
		mu:  sync.Mutex{},
	}, nil
}

func (l *JSONLLog) agentPath(agentID string) string {
	return filepath.Join(l.dir, agentID+".jsonl")
}

func (l *JSONLLog) Append(record types.AuditRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to marshal audit record", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.agentPath(record.AgentID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeAuditWriteFailed, err, "failed to open audit log for %s", record.AgentID)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrapf(errors.ErrCodeAuditWriteFailed, err, "failed to append audit record for %s", record.AgentID)
	}

	return nil
}

func (l *JSONLLog) Records(agentID string) ([]types.AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.agentPath(agentID))
	if os.IsNotExist(err) {
		return []types.AuditRecord{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	records := make([]types.AuditRecord, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var record types.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("failed to parse audit record: %w", err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	return records, nil
}

func (l *JSONLLog) Path() string {
	return l.dir
}

func (l *JSONLLog) Close() error {
	return nil
}
