package tournament

import (
	"github.com/rxtech-lab/argo-arena/internal/audit"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/metrics"
	"github.com/rxtech-lab/argo-arena/internal/price"
	"github.com/rxtech-lab/argo-arena/internal/session"
	"github.com/rxtech-lab/argo-arena/internal/stats"
	"github.com/rxtech-lab/argo-arena/internal/strategy"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"go.uber.org/zap"
)

// NewFromConfig wires a complete engine from the configuration: it creates the
// run folder, the audit log and stats file inside it, the price oracle, the
// metrics registry and, when an endpoint is configured, the external decision
// provider. Agents listed in the configuration are registered.
//
// opts are applied after the configured components and can replace them.
func NewFromConfig(cfg config.Config, log *logger.Logger, opts ...Option) (*Engine, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	sess := session.NewManager(log.Named("session"))
	if err := sess.Initialize(cfg.Output.Dir); err != nil {
		return nil, err
	}

	auditLog, err := audit.New(audit.Format(cfg.Output.AuditFormat), sess.RunPath(), log.Named("audit"))
	if err != nil {
		return nil, err
	}

	tracker := stats.NewTracker(log.Named("stats"))
	tracker.Initialize(sess.RunID(), sess.SessionStart(), sess.FilePath(stats.FileName), auditLog.Path())

	m := metrics.New()

	oracle, err := price.NewOracleFromConfig(cfg.Price, log.Named("price"), price.WithSourceFailureHook(
		func(source types.PriceSourceType, _ error) {
			m.ObservePriceFailure(source)
		},
	))
	if err != nil {
		_ = auditLog.Close()

		return nil, err
	}

	base := []Option{
		WithAuditLog(auditLog),
		WithStats(tracker),
		WithMetrics(m),
		func(e *Engine) { e.session = sess },
	}

	if cfg.External.Endpoint != "" {
		provider, err := strategy.NewHTTPDecisionProvider(cfg.External)
		if err != nil {
			_ = auditLog.Close()

			return nil, err
		}

		base = append(base, WithDecisionProvider(provider))
	}

	engine, err := NewEngine(ConfigFromTournament(cfg.Tournament), oracle, log.Named("tournament"), append(base, opts...)...)
	if err != nil {
		_ = auditLog.Close()

		return nil, err
	}

	for _, agentCfg := range cfg.Agents {
		kind, err := types.ParseStrategyKind(agentCfg.Strategy)
		if err != nil {
			_ = engine.Close()

			return nil, err
		}

		if _, err := engine.RegisterAgent(agentCfg.ID, agentCfg.Owner, kind); err != nil {
			_ = engine.Close()

			return nil, err
		}
	}

	log.Info("Tournament engine ready",
		zap.String("run_path", sess.RunPath()),
		zap.String("audit_log", auditLog.Path()),
		zap.Int("agents", engine.AgentCount()),
	)

	return engine, nil
}
