// Package strategy holds the decision contract every tournament agent
// implements and the built-in strategies.
package strategy

import (
	"context"

	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// Strategy decides what an agent does on a tick. Implementations read the
// portfolio but never mutate it; execution belongs to the ledger.
//
// Decide is never called concurrently for the same instance, so strategies
// may keep per-agent state without locking.
type Strategy interface {
	// Name returns the display name of the strategy.
	Name() string
	// Kind returns the kind the strategy was built from.
	Kind() types.StrategyKind
	// Decide returns the decision for the current price and indicators.
	Decide(ctx context.Context, price decimal.Decimal, portfolio types.Portfolio, ind types.Indicators) (types.TradeDecision, error)
	// Reset clears any state accumulated across ticks.
	Reset()
}

// Options carries what the factory needs to build a strategy.
type Options struct {
	// Provider is required for external strategies.
	Provider DecisionProvider
	// InitialCash is used by external strategies to report ROI to the provider.
	InitialCash decimal.Decimal
	Logger      *logger.Logger
}

// New builds a fresh strategy instance of the given kind.
func New(kind types.StrategyKind, opts Options) (Strategy, error) {
	switch kind {
	case types.StrategyKindMomentum:
		return NewMomentum(), nil
	case types.StrategyKindDCA:
		return NewDCA(), nil
	case types.StrategyKindMeanReversion:
		return NewMeanReversion(), nil
	case types.StrategyKindExternal:
		if opts.Provider == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "external strategy requires a decision provider")
		}

		return NewExternal(opts.Provider, opts.InitialCash, opts.Logger), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy kind %q", kind)
	}
}

var (
	minCash  = decimal.NewFromInt(10)
	minAsset = decimal.RequireFromString("0.01")
)
