package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/stretchr/testify/suite"
)

type ManagerTestSuite struct {
	suite.Suite
	tempDir string
	now     time.Time
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "session_manager_test_*")
	s.Require().NoError(err)
	s.tempDir = tempDir
	s.now = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
}

func (s *ManagerTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *ManagerTestSuite) newManager() *Manager {
	return NewManager(logger.NewNopLogger(), WithClock(func() time.Time { return s.now }))
}

func (s *ManagerTestSuite) TestInitializeFirstRun() {
	m := s.newManager()
	s.Require().NoError(m.Initialize(s.tempDir))

	s.Equal("run_1", m.RunID())
	s.Equal(1, m.RunNumber())
	s.Equal("2025-06-15", m.Date())
	s.Equal(s.now, m.SessionStart())
	s.Equal(filepath.Join(s.tempDir, "2025-06-15", "run_1"), m.RunPath())
	s.DirExists(m.RunPath())

	_, err := uuid.Parse(m.SessionID())
	s.NoError(err)
}

func (s *ManagerTestSuite) TestInitializeSkipsExistingRuns() {
	for _, name := range []string{"run_1", "run_2", "run_10", "notes"} {
		s.Require().NoError(os.MkdirAll(filepath.Join(s.tempDir, "2025-06-15", name), 0755))
	}
	// a file named like a run is ignored
	s.Require().NoError(os.WriteFile(filepath.Join(s.tempDir, "2025-06-15", "run_99"), []byte("x"), 0644))

	m := s.newManager()
	s.Require().NoError(m.Initialize(s.tempDir))
	s.Equal("run_11", m.RunID())
}

func (s *ManagerTestSuite) TestEachManagerGetsItsOwnRun() {
	first := s.newManager()
	s.Require().NoError(first.Initialize(s.tempDir))

	second := s.newManager()
	s.Require().NoError(second.Initialize(s.tempDir))

	s.Equal("run_2", second.RunID())
	s.NotEqual(first.SessionID(), second.SessionID())
}

func (s *ManagerTestSuite) TestFilePath() {
	m := s.newManager()
	s.Require().NoError(m.Initialize(s.tempDir))

	s.Equal(filepath.Join(s.tempDir, "2025-06-15", "run_1", "stats.yaml"), m.FilePath("stats.yaml"))
}

func (s *ManagerTestSuite) TestListRunsAndDates() {
	for _, p := range []string{"2025-06-14/run_1", "2025-06-15/run_2", "2025-06-15/run_10", "2025-06-15/run_1", "misc"} {
		s.Require().NoError(os.MkdirAll(filepath.Join(s.tempDir, p), 0755))
	}

	m := s.newManager()
	s.Require().NoError(m.Initialize(s.tempDir))

	runs, err := m.ListRuns("2025-06-15")
	s.Require().NoError(err)
	s.Equal([]string{"run_1", "run_2", "run_10", "run_11"}, runs)

	runs, err = m.ListRuns("2020-01-01")
	s.Require().NoError(err)
	s.Empty(runs)

	dates, err := m.Dates()
	s.Require().NoError(err)
	s.Equal([]string{"2025-06-14", "2025-06-15"}, dates)
}

func (s *ManagerTestSuite) TestDatesOfMissingDirectory() {
	m := NewManager(logger.NewNopLogger())
	m.outputDir = filepath.Join(s.tempDir, "missing")

	dates, err := m.Dates()
	s.Require().NoError(err)
	s.Empty(dates)
}

func (s *ManagerTestSuite) TestInitializeFailsWhenOutputIsAFile() {
	path := filepath.Join(s.tempDir, "file")
	s.Require().NoError(os.WriteFile(path, []byte("x"), 0644))

	err := s.newManager().Initialize(path)
	s.Error(err)
}
