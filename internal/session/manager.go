// Package session manages the output folder of one tournament run:
//
//	{outputDir}/{YYYY-MM-DD}/run_N/
//
// Audit logs and stats.yaml for the run are written inside that folder.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var (
	runPattern  = regexp.MustCompile(`^run_(\d+)$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Manager owns the run folder of the current process.
type Manager struct {
	outputDir    string
	sessionID    string
	runID        string
	runNumber    int
	sessionStart time.Time
	date         string
	runPath      string
	now          func() time.Time
	mu           sync.Mutex
	logger       *logger.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces the clock used to pick the session date.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		outputDir:    "",
		sessionID:    "",
		runID:        "",
		runNumber:    0,
		sessionStart: time.Time{},
		date:         "",
		runPath:      "",
		now:          time.Now,
		mu:           sync.Mutex{},
		logger:       log,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Initialize picks the next free run number for today under outputDir and
// creates the run folder.
func (m *Manager) Initialize(outputDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outputDir = outputDir
	m.sessionStart = m.now()
	m.date = m.sessionStart.Format(dateLayout)
	m.sessionID = uuid.NewString()

	runNumber, err := m.nextRunNumber(m.date)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to determine run number", err)
	}

	m.runNumber = runNumber
	m.runID = fmt.Sprintf("run_%d", runNumber)
	m.runPath = filepath.Join(m.outputDir, m.date, m.runID)

	if err := os.MkdirAll(m.runPath, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeSessionInitFailed, "failed to create run folder", err)
	}

	m.logger.Info("Session initialized",
		zap.String("session_id", m.sessionID),
		zap.String("run_id", m.runID),
		zap.String("date", m.date),
		zap.String("path", m.runPath),
	)

	return nil
}

func (m *Manager) nextRunNumber(date string) (int, error) {
	runs, err := listRuns(filepath.Join(m.outputDir, date))
	if err != nil {
		return 0, err
	}

	if len(runs) == 0 {
		return 1, nil
	}

	last, _ := strconv.Atoi(runPattern.FindStringSubmatch(runs[len(runs)-1])[1])

	return last + 1, nil
}

// RunPath returns the folder of the current run.
func (m *Manager) RunPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runPath
}

// RunID returns the run folder name, e.g. "run_1".
func (m *Manager) RunID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runID
}

func (m *Manager) RunNumber() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runNumber
}

// SessionID is a random identifier that stays unique across dates and hosts.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessionID
}

func (m *Manager) SessionStart() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessionStart
}

// Date returns the run date in YYYY-MM-DD format.
func (m *Manager) Date() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.date
}

// FilePath returns the full path of a file inside the run folder.
func (m *Manager) FilePath(filename string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return filepath.Join(m.runPath, filename)
}

// ListRuns returns the run folders of a date sorted by run number.
func (m *Manager) ListRuns(date string) ([]string, error) {
	return listRuns(filepath.Join(m.outputDir, date))
}

// Dates returns every date folder under the output directory, oldest first.
func (m *Manager) Dates() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	dates := make([]string, 0)

	for _, entry := range entries {
		if entry.IsDir() && datePattern.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}

	sort.Strings(dates)

	return dates, nil
}

func listRuns(datePath string) ([]string, error) {
	entries, err := os.ReadDir(datePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read date directory: %w", err)
	}

	runs := make([]string, 0)

	for _, entry := range entries {
		if entry.IsDir() && runPattern.MatchString(entry.Name()) {
			runs = append(runs, entry.Name())
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		numI, _ := strconv.Atoi(runs[i][4:])
		numJ, _ := strconv.Atoi(runs[j][4:])

		return numI < numJ
	})

	return runs, nil
}
