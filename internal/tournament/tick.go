package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AgentOutcome is what one agent did during a tick.
type AgentOutcome struct {
	AgentID  string
	Decision types.TradeDecision
	Trade    optional.Option[types.Trade]
	// Err is set when the agent failed; its decision then counts as a hold.
	Err error
}

// AgentTrade is a trade executed by an agent during a tick.
type AgentTrade struct {
	AgentID string
	Trade   types.Trade
}

// AgentFailure is an agent that failed during a tick.
type AgentFailure struct {
	AgentID string
	Err     error
}

// TickResult summarizes one completed tick.
type TickResult struct {
	Price      types.PriceSample
	Degraded   bool
	Indicators types.Indicators
	// Outcomes are in registration order.
	Outcomes  []AgentOutcome
	Trades    []AgentTrade
	Failures  []AgentFailure
	StartedAt time.Time
	Duration  time.Duration
}

// Tick runs one tournament iteration: fetch the price, compute indicators,
// then let every agent decide and trade. Ticks never overlap.
//
// When no price can be obtained the tick is aborted before any agent runs and
// the ErrCodePriceUnavailable error is returned. A failing agent does not
// affect the others; it is recorded in TickResult.Failures.
func (e *Engine) Tick(ctx context.Context) (TickResult, error) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	startedAt := e.now()
	cb := e.getCallbacks()

	quote, err := e.oracle.Quote(ctx)
	if err != nil {
		e.stats.RecordAbortedTick()
		e.metrics.ObserveAbortedTick()
		e.log.Warn("Tick aborted: price unavailable", zap.Error(err))

		if cb.OnPriceUnavailable != nil {
			(*cb.OnPriceUnavailable)(err)
		}

		return TickResult{}, err
	}

	sample := quote.Sample
	indicators := quote.Indicators
	agents := e.agentList()

	outcomes := make([]AgentOutcome, len(agents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxParallelAgents)

	for i, a := range agents {
		g.Go(func() error {
			outcomes[i] = e.evaluate(gctx, a, sample.Value, indicators)
			// Agent failures are carried in the outcome so siblings keep running.
			return nil
		})
	}

	_ = g.Wait()

	result := TickResult{
		Price:      sample,
		Degraded:   quote.Degraded,
		Indicators: indicators,
		Outcomes:   outcomes,
		Trades:     make([]AgentTrade, 0),
		Failures:   make([]AgentFailure, 0),
		StartedAt:  startedAt,
		Duration:   0,
	}

	for i, outcome := range outcomes {
		a := agents[i]

		if outcome.Err != nil {
			result.Failures = append(result.Failures, AgentFailure{AgentID: a.id, Err: outcome.Err})
			e.stats.RecordAgentFailure()
			e.metrics.ObserveAgentFailure(a.id)
			e.log.Error("Agent evaluation failed, treating as hold",
				zap.String("agent_id", a.id),
				zap.Error(outcome.Err),
			)

			if cb.OnAgentError != nil {
				(*cb.OnAgentError)(a.id, outcome.Err)
			}

			continue
		}

		trade, err := outcome.Trade.Take()
		if err != nil {
			continue
		}

		result.Trades = append(result.Trades, AgentTrade{AgentID: a.id, Trade: trade})
		e.recordTrade(a.id, trade, indicators)

		if cb.OnTrade != nil {
			(*cb.OnTrade)(a.id, trade)
		}
	}

	for _, a := range agents {
		e.metrics.SetAgentScore(a.id, a.ledger.Value(sample.Value), a.ledger.ROIBasisPoints(sample.Value))
	}

	e.stats.RecordTick(sample, quote.Degraded)

	if err := e.stats.Flush(); err != nil {
		e.log.Warn("Failed to write stats", zap.Error(err))
	}

	result.Duration = e.now().Sub(startedAt)
	e.metrics.ObserveTick(sample, result.Duration)

	e.log.Debug("Tick completed",
		zap.String("price", sample.Value.String()),
		zap.String("source", string(sample.Source)),
		zap.Bool("degraded", quote.Degraded),
		zap.Int("agents", len(agents)),
		zap.Int("trades", len(result.Trades)),
		zap.Int("failures", len(result.Failures)),
	)

	if cb.OnTick != nil {
		(*cb.OnTick)(result)
	}

	return result, nil
}

// evaluate runs one agent's decide and execute step. Panics are converted to
// errors so a misbehaving strategy only affects its own agent.
func (e *Engine) evaluate(ctx context.Context, a *agent, price decimal.Decimal, indicators types.Indicators) (outcome AgentOutcome) {
	outcome = AgentOutcome{
		AgentID:  a.id,
		Decision: types.Hold(""),
		Trade:    optional.None[types.Trade](),
		Err:      nil,
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Decision = types.Hold("")
			outcome.Trade = optional.None[types.Trade]()
			outcome.Err = errors.New(errors.ErrCodeAgentExecution, fmt.Sprintf("agent %s panicked: %v", a.id, r))
		}
	}()

	decision, err := a.strategy.Decide(ctx, price, a.ledger.Portfolio(), indicators)
	if err != nil {
		outcome.Err = errors.Wrapf(errors.ErrCodeAgentExecution, err, "agent %s failed to decide", a.id)

		return outcome
	}

	outcome.Decision = decision

	trade, err := a.ledger.ExecuteTrade(decision, price)
	if err != nil {
		outcome.Err = errors.Wrapf(errors.ErrCodeAgentExecution, err, "agent %s failed to execute %s", a.id, decision.Action)

		return outcome
	}

	outcome.Trade = trade

	if t, err := trade.Take(); err == nil {
		a.touch(t.Timestamp)
	}

	return outcome
}

func (e *Engine) recordTrade(agentID string, trade types.Trade, indicators types.Indicators) {
	e.stats.RecordTrade(trade)
	e.metrics.ObserveTrade(agentID, trade.Action)

	if err := e.auditLog.Append(types.NewAuditRecord(agentID, trade, indicators)); err != nil {
		e.log.Error("Failed to write audit record",
			zap.String("agent_id", agentID),
			zap.String("trade_id", trade.ID),
			zap.Error(err),
		)
	}

	e.log.Info("Trade executed",
		zap.String("agent_id", agentID),
		zap.String("trade_id", trade.ID),
		zap.String("action", string(trade.Action)),
		zap.String("amount", trade.AssetAmount.String()),
		zap.String("execution_price", trade.ExecutionPrice.String()),
		zap.String("reason", trade.Reason),
	)
}
