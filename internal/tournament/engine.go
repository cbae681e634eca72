// Package tournament runs the trading tournament: it registers agents, drives
// the periodic tick that fetches the price and lets every agent decide and
// trade, and exposes the resulting standings.
package tournament

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/audit"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/leaderboard"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/metrics"
	"github.com/rxtech-lab/argo-arena/internal/portfolio"
	"github.com/rxtech-lab/argo-arena/internal/price"
	"github.com/rxtech-lab/argo-arena/internal/session"
	"github.com/rxtech-lab/argo-arena/internal/stats"
	"github.com/rxtech-lab/argo-arena/internal/strategy"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultTickInterval      = 60 * time.Second
	DefaultMaxParallelAgents = 8
)

// agentIDPattern keeps ids usable as file names for per-agent audit logs.
var agentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// PriceOracle is the part of the price oracle the engine depends on.
type PriceOracle interface {
	Quote(ctx context.Context) (price.Quote, error)
	Indicators() types.Indicators
	Latest() optional.Option[types.PriceSample]
}

// Config holds the scheduler settings.
type Config struct {
	InitialCash       decimal.Decimal
	TickInterval      time.Duration
	MaxParallelAgents int
}

// ConfigFromTournament converts the file configuration.
func ConfigFromTournament(cfg config.TournamentConfig) Config {
	return Config{
		InitialCash:       decimal.NewFromFloat(cfg.InitialCash),
		TickInterval:      cfg.TickInterval,
		MaxParallelAgents: cfg.MaxParallelAgents,
	}
}

type agent struct {
	id           string
	owner        string
	strategy     strategy.Strategy
	ledger       *portfolio.Ledger
	registeredAt time.Time

	mu          sync.Mutex
	lastUpdated time.Time
}

func (a *agent) touch(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastUpdated = t
}

func (a *agent) record() types.AgentRecord {
	p, trades := a.ledger.Snapshot()

	a.mu.Lock()
	defer a.mu.Unlock()

	return types.AgentRecord{
		AgentID:      a.id,
		OwnerAddress: a.owner,
		StrategyKind: a.strategy.Kind(),
		StrategyName: a.strategy.Name(),
		Portfolio:    p,
		InitialCash:  a.ledger.InitialCash(),
		Trades:       trades,
		RegisteredAt: a.registeredAt,
		LastUpdated:  a.lastUpdated,
	}
}

// Engine is the tournament aggregate. It owns the agents and their ledgers;
// everything it hands out is a copy.
type Engine struct {
	cfg       Config
	oracle    PriceOracle
	auditLog  audit.Log
	stats     *stats.Tracker
	metrics   *metrics.Metrics
	provider  strategy.DecisionProvider
	session   *session.Manager
	ledgerOpt []portfolio.Option
	log       *logger.Logger
	now       func() time.Time

	cbMu      sync.RWMutex
	callbacks Callbacks

	agentsMu sync.RWMutex
	agents   []*agent
	byID     map[string]*agent

	// tickMu serializes ticks and resets.
	tickMu sync.Mutex

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Option customizes an Engine.
type Option func(*Engine)

func WithAuditLog(log audit.Log) Option {
	return func(e *Engine) {
		e.auditLog = log
	}
}

func WithStats(tracker *stats.Tracker) Option {
	return func(e *Engine) {
		e.stats = tracker
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) {
		e.callbacks = cb
	}
}

// WithDecisionProvider enables registration of external strategy agents.
func WithDecisionProvider(p strategy.DecisionProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithLedgerOptions passes options to every ledger the engine creates.
func WithLedgerOptions(opts ...portfolio.Option) Option {
	return func(e *Engine) {
		e.ledgerOpt = append(e.ledgerOpt, opts...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a stopped engine with no agents.
func NewEngine(cfg Config, oracle PriceOracle, log *logger.Logger, opts ...Option) (*Engine, error) {
	if oracle == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "price oracle is required")
	}

	if !cfg.InitialCash.IsPositive() {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "initial cash must be positive")
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	if cfg.MaxParallelAgents <= 0 {
		cfg.MaxParallelAgents = DefaultMaxParallelAgents
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	e := &Engine{
		cfg:       cfg,
		oracle:    oracle,
		auditLog:  audit.NewNopLog(),
		stats:     nil,
		metrics:   nil,
		provider:  nil,
		session:   nil,
		ledgerOpt: nil,
		log:       log,
		now:       time.Now,
		cbMu:      sync.RWMutex{},
		callbacks: Callbacks{}, //nolint:exhaustruct // no callbacks by default
		agentsMu:  sync.RWMutex{},
		agents:    make([]*agent, 0),
		byID:      make(map[string]*agent),
		tickMu:    sync.Mutex{},
		runMu:     sync.Mutex{},
		running:   false,
		stop:      nil,
		done:      nil,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.stats == nil {
		e.stats = stats.NewTracker(log)
	}

	if e.metrics == nil {
		e.metrics = metrics.New()
	}

	return e, nil
}

// SetCallbacks replaces the event hooks.
func (e *Engine) SetCallbacks(cb Callbacks) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()

	e.callbacks = cb
}

func (e *Engine) getCallbacks() Callbacks {
	e.cbMu.RLock()
	defer e.cbMu.RUnlock()

	return e.callbacks
}

// RunPath returns the output folder of the current run, or "" when the engine
// was not created from a configuration with an output directory.
func (e *Engine) RunPath() string {
	if e.session == nil {
		return ""
	}

	return e.session.RunPath()
}

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Stats returns the running tournament statistics.
func (e *Engine) Stats() types.TournamentStats {
	return e.stats.Stats()
}

// Config returns the scheduler settings in effect.
func (e *Engine) Config() Config {
	return e.cfg
}

func validateRegistration(agentID, owner string) (string, string, error) {
	agentID = strings.TrimSpace(agentID)
	owner = strings.TrimSpace(owner)

	if agentID == "" {
		return "", "", errors.New(errors.ErrCodeInvalidParameter, "agent id is required")
	}

	if !agentIDPattern.MatchString(agentID) {
		return "", "", errors.Newf(errors.ErrCodeInvalidParameter, "agent id %q must be 1-64 letters, digits, '.', '_' or '-'", agentID)
	}

	if owner == "" {
		return "", "", errors.New(errors.ErrCodeInvalidParameter, "owner address is required")
	}

	return agentID, owner, nil
}

// RegisterAgent creates an agent running a built-in strategy of the given kind.
// Nothing is registered when validation fails.
func (e *Engine) RegisterAgent(agentID, owner string, kind types.StrategyKind) (types.AgentRecord, error) {
	agentID, owner, err := validateRegistration(agentID, owner)
	if err != nil {
		return types.AgentRecord{}, err
	}

	s, err := strategy.New(kind, strategy.Options{
		Provider:    e.provider,
		InitialCash: e.cfg.InitialCash,
		Logger:      e.log.Named("strategy").Named(agentID),
	})
	if err != nil {
		return types.AgentRecord{}, err
	}

	return e.RegisterAgentWithStrategy(agentID, owner, s)
}

// RegisterAgentWithStrategy creates an agent driven by the given strategy instance.
// The instance must not be shared with another agent.
func (e *Engine) RegisterAgentWithStrategy(agentID, owner string, s strategy.Strategy) (types.AgentRecord, error) {
	agentID, owner, err := validateRegistration(agentID, owner)
	if err != nil {
		return types.AgentRecord{}, err
	}

	if s == nil {
		return types.AgentRecord{}, errors.New(errors.ErrCodeInvalidParameter, "strategy is required")
	}

	e.agentsMu.Lock()

	if _, exists := e.byID[agentID]; exists {
		e.agentsMu.Unlock()

		return types.AgentRecord{}, errors.Newf(errors.ErrCodeDuplicateAgent, "agent %s already registered", agentID)
	}

	now := e.now()
	ledgerOpts := append([]portfolio.Option{portfolio.WithClock(e.now)}, e.ledgerOpt...)
	a := &agent{
		id:           agentID,
		owner:        owner,
		strategy:     s,
		ledger:       portfolio.NewLedger(e.cfg.InitialCash, ledgerOpts...),
		registeredAt: now,
		mu:           sync.Mutex{},
		lastUpdated:  now,
	}

	e.agents = append(e.agents, a)
	e.byID[agentID] = a
	count := len(e.agents)

	e.agentsMu.Unlock()

	e.stats.SetAgentCount(count)
	e.metrics.SetAgentCount(count)
	e.metrics.SetAgentScore(agentID, e.cfg.InitialCash, 0)

	e.log.Info("Agent registered",
		zap.String("agent_id", agentID),
		zap.String("owner", owner),
		zap.String("strategy", s.Name()),
		zap.String("kind", string(s.Kind())),
	)

	return a.record(), nil
}

// GetAgent returns a snapshot of one agent.
func (e *Engine) GetAgent(agentID string) (types.AgentRecord, error) {
	e.agentsMu.RLock()
	a, ok := e.byID[agentID]
	e.agentsMu.RUnlock()

	if !ok {
		return types.AgentRecord{}, errors.Newf(errors.ErrCodeAgentNotFound, "agent %s not found", agentID)
	}

	return a.record(), nil
}

func (e *Engine) agentList() []*agent {
	e.agentsMu.RLock()
	defer e.agentsMu.RUnlock()

	out := make([]*agent, len(e.agents))
	copy(out, e.agents)

	return out
}

// Agents returns snapshots of every agent in registration order.
func (e *Engine) Agents() []types.AgentRecord {
	agents := e.agentList()
	records := make([]types.AgentRecord, 0, len(agents))

	for _, a := range agents {
		records = append(records, a.record())
	}

	return records
}

func (e *Engine) AgentCount() int {
	e.agentsMu.RLock()
	defer e.agentsMu.RUnlock()

	return len(e.agents)
}

// CurrentPrice asks the oracle for the current price (cached within its TTL).
func (e *Engine) CurrentPrice(ctx context.Context) (types.PriceSample, error) {
	quote, err := e.oracle.Quote(ctx)
	if err != nil {
		return types.PriceSample{}, err
	}

	return quote.Sample, nil
}

// LastPrice returns the most recent price seen by the oracle without fetching.
func (e *Engine) LastPrice() optional.Option[types.PriceSample] {
	return e.oracle.Latest()
}

// Indicators returns the indicators over the current price history.
func (e *Engine) Indicators() types.Indicators {
	return e.oracle.Indicators()
}

func (e *Engine) lastPriceValue() decimal.Decimal {
	if sample, err := e.oracle.Latest().Take(); err == nil {
		return sample.Value
	}

	return decimal.Zero
}

// AgentScore is an agent's ROI in basis points, the integer score format used
// for export.
type AgentScore struct {
	AgentID      string `json:"agentId"`
	OwnerAddress string `json:"playerAddress"`
	Score        int64  `json:"score"`
}

// AgentScores returns every agent's ROI in basis points at the last price,
// in registration order.
func (e *Engine) AgentScores() []AgentScore {
	lastPrice := e.lastPriceValue()
	agents := e.agentList()
	scores := make([]AgentScore, 0, len(agents))

	for _, a := range agents {
		scores = append(scores, AgentScore{
			AgentID:      a.id,
			OwnerAddress: a.owner,
			Score:        a.ledger.ROIBasisPoints(lastPrice),
		})
	}

	return scores
}

// Leaderboard ranks every agent at the last price.
func (e *Engine) Leaderboard() types.Leaderboard {
	lb := leaderboard.Rank(e.Agents(), e.lastPriceValue())
	lb.GeneratedAt = e.now()

	return lb
}

// ResetAll restores every agent's ledger and strategy to their initial state.
// It waits for an in-flight tick to finish.
func (e *Engine) ResetAll() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	for _, a := range e.agentList() {
		a.ledger.Reset()
		a.strategy.Reset()
		a.touch(a.registeredAt)
		e.metrics.SetAgentScore(a.id, a.ledger.InitialCash(), 0)
	}

	e.log.Info("All agents reset", zap.Int("agents", e.AgentCount()))
}

// Close stops the scheduler, writes the final statistics and closes the audit log.
func (e *Engine) Close() error {
	e.Stop()
	e.Wait()

	if err := e.stats.Flush(); err != nil {
		e.log.Warn("Failed to write final stats", zap.Error(err))
	}

	if err := e.auditLog.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeAuditWriteFailed, "failed to close audit log", err)
	}

	return nil
}
