package leaderboard

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultTopAgents is the number of agents TopAgents returns for n <= 0.
const DefaultTopAgents = 3

// Source provides the agent snapshots and the price the leaderboard is built from.
type Source interface {
	Agents() []types.AgentRecord
	LastPrice() optional.Option[types.PriceSample]
}

// Service caches the leaderboard for a short TTL so frequent readers do not
// rebuild it on every request.
type Service struct {
	source   Source
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	cached   optional.Option[types.Leaderboard]
	cachedAt time.Time
}

// Option customizes a Service.
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service. A zero ttl disables caching.
func NewService(source Source, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		source:   source,
		ttl:      ttl,
		now:      time.Now,
		mu:       sync.Mutex{},
		cached:   optional.None[types.Leaderboard](),
		cachedAt: time.Time{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Leaderboard returns the cached leaderboard or rebuilds it when expired.
func (s *Service) Leaderboard() types.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if lb, err := s.cached.Take(); err == nil && now.Sub(s.cachedAt) < s.ttl {
		return lb
	}

	lastPrice := decimal.Zero
	if sample, err := s.source.LastPrice().Take(); err == nil {
		lastPrice = sample.Value
	}

	lb := Rank(s.source.Agents(), lastPrice)
	lb.GeneratedAt = now

	s.cached = optional.Some(lb)
	s.cachedAt = now

	return lb
}

// Invalidate drops the cached leaderboard.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = optional.None[types.Leaderboard]()
}

// TopAgents returns the first n entries.
func (s *Service) TopAgents(n int) []types.LeaderboardEntry {
	if n <= 0 {
		n = DefaultTopAgents
	}

	entries := s.Leaderboard().Entries
	if n > len(entries) {
		n = len(entries)
	}

	out := make([]types.LeaderboardEntry, n)
	copy(out, entries[:n])

	return out
}

// AgentRank returns the entry of one agent.
func (s *Service) AgentRank(agentID string) (types.LeaderboardEntry, error) {
	for _, e := range s.Leaderboard().Entries {
		if e.AgentID == agentID {
			return e, nil
		}
	}

	return types.LeaderboardEntry{}, errors.Newf(errors.ErrCodeAgentNotFound, "agent %s not found", agentID)
}

func (s *Service) Statistics() types.LeaderboardStatistics {
	return s.Leaderboard().Statistics
}
