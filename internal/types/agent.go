package types

import (
	"time"

	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

type StrategyKind string

const (
	StrategyKindMomentum      StrategyKind = "momentum"
	StrategyKindDCA           StrategyKind = "dca"
	StrategyKindMeanReversion StrategyKind = "mean_reversion"
	// StrategyKindExternal delegates decisions to an externally hosted provider.
	StrategyKindExternal StrategyKind = "external"
)

// StrategyKinds lists every kind the strategy factory can build.
func StrategyKinds() []StrategyKind {
	return []StrategyKind{
		StrategyKindMomentum,
		StrategyKindDCA,
		StrategyKindMeanReversion,
		StrategyKindExternal,
	}
}

// ParseStrategyKind validates a user supplied strategy kind.
func ParseStrategyKind(s string) (StrategyKind, error) {
	for _, kind := range StrategyKinds() {
		if string(kind) == s {
			return kind, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy kind %q", s)
}

// AgentRecord is a point-in-time view of a registered agent.
// Portfolio and Trades are copies; mutating them has no effect on the engine.
type AgentRecord struct {
	AgentID      string          `json:"agentId" yaml:"agent_id"`
	OwnerAddress string          `json:"playerAddress" yaml:"owner_address"`
	StrategyKind StrategyKind    `json:"strategyType" yaml:"strategy_kind"`
	StrategyName string          `json:"strategyName" yaml:"strategy_name"`
	Portfolio    Portfolio       `json:"portfolio" yaml:"portfolio"`
	InitialCash  decimal.Decimal `json:"initialBalance" yaml:"initial_cash"`
	Trades       []Trade         `json:"trades" yaml:"trades"`
	RegisteredAt time.Time       `json:"registeredAt" yaml:"registered_at"`
	LastUpdated  time.Time       `json:"lastUpdated" yaml:"last_updated"`
}
