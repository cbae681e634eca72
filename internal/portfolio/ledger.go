// Package portfolio owns one agent's balances and turns trade decisions into
// executed trades under a fixed slippage model.
package portfolio

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// Slippage is the proportional execution penalty applied to every trade.
	Slippage = decimal.RequireFromString("0.003")

	// DefaultFraction is used when a decision carries neither a percentage nor an amount.
	DefaultFraction = decimal.RequireFromString("0.5")

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	tenK    = decimal.NewFromInt(10000)
	half    = decimal.RequireFromString("0.5")
)

// Ledger is the authoritative owner of one agent's cash/asset balances and
// trade history. All methods are safe for concurrent use; readers always get
// a consistent copy of the balances.
type Ledger struct {
	mu          sync.RWMutex
	initialCash decimal.Decimal
	start       types.Portfolio
	portfolio   types.Portfolio
	trades      []types.Trade
	newID       IDGenerator
	now         func() time.Time
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock replaces the clock used to timestamp trades.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator replaces the trade id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(l *Ledger) {
		l.newID = gen
	}
}

// WithStartingPortfolio starts the ledger from an arbitrary portfolio instead
// of cash only. ROI is still measured against the initial cash.
func WithStartingPortfolio(p types.Portfolio) Option {
	return func(l *Ledger) {
		l.start = p
		l.portfolio = p
	}
}

// NewLedger creates a ledger holding initialCash and no asset.
func NewLedger(initialCash decimal.Decimal, opts ...Option) *Ledger {
	l := &Ledger{
		mu:          sync.RWMutex{},
		initialCash: initialCash,
		start:       types.NewPortfolio(initialCash),
		portfolio:   types.NewPortfolio(initialCash),
		trades:      make([]types.Trade, 0),
		newID:       NewTradeID,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ExecuteTrade applies decision at the given market price.
//
// A hold, or a decision whose computed size is zero, returns None and leaves
// the ledger untouched. Invalid decisions (unknown action, percentage outside
// [0, 1], negative amount, non-positive price) fail with ErrCodeInvalidDecision
// and also leave the ledger untouched.
func (l *Ledger) ExecuteTrade(decision types.TradeDecision, price decimal.Decimal) (optional.Option[types.Trade], error) {
	if decision.IsHold() {
		return optional.None[types.Trade](), nil
	}

	if err := validateDecision(decision, price); err != nil {
		return optional.None[types.Trade](), err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.portfolio

	var (
		f  fill
		ok bool
	)

	switch decision.Action {
	case types.TradeActionBuy:
		f, ok = l.buy(decision, price)
	case types.TradeActionSell:
		f, ok = l.sell(decision, price)
	}

	if !ok {
		return optional.None[types.Trade](), nil
	}

	id, err := l.newID()
	if err != nil {
		return optional.None[types.Trade](), errors.Wrap(errors.ErrCodeAgentExecution, "failed to generate trade id", err)
	}

	trade := types.Trade{
		ID:              id,
		Timestamp:       l.now(),
		Action:          decision.Action,
		MarketPrice:     price,
		ExecutionPrice:  f.execPrice,
		AssetAmount:     f.asset,
		CashValue:       f.cash,
		PortfolioBefore: before,
		PortfolioAfter:  f.after,
		Reason:          decision.Reason,
	}

	l.portfolio = f.after
	l.trades = append(l.trades, trade)

	return optional.Some(trade), nil
}

func validateDecision(decision types.TradeDecision, price decimal.Decimal) error {
	if decision.Action != types.TradeActionBuy && decision.Action != types.TradeActionSell {
		return errors.Newf(errors.ErrCodeInvalidDecision, "unknown trade action %q", decision.Action)
	}

	if !price.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidDecision, "price must be positive, got %s", price)
	}

	if pct, err := decision.Percentage.Take(); err == nil {
		if pct.IsNegative() || pct.GreaterThan(one) {
			return errors.Newf(errors.ErrCodeInvalidDecision, "percentage must be within [0, 1], got %s", pct)
		}
	}

	if amount, err := decision.FixedAmount.Take(); err == nil && amount.IsNegative() {
		return errors.Newf(errors.ErrCodeInvalidDecision, "amount must not be negative, got %s", amount)
	}

	return nil
}

// fill is a computed but not yet applied trade.
type fill struct {
	execPrice decimal.Decimal
	asset     decimal.Decimal
	cash      decimal.Decimal
	after     types.Portfolio
}

// buy computes a buy against the current balances without mutating them.
func (l *Ledger) buy(decision types.TradeDecision, price decimal.Decimal) (fill, bool) {
	cash := l.portfolio.Cash

	var spend decimal.Decimal

	switch {
	case decision.FixedAmount.IsSome():
		amount, _ := decision.FixedAmount.Take()
		spend = decimal.Min(amount, cash)
	case decision.Percentage.IsSome():
		pct, _ := decision.Percentage.Take()
		spend = cash.Mul(pct)
	default:
		spend = cash.Mul(DefaultFraction)
	}

	if !spend.IsPositive() {
		return fill{}, false
	}

	execPrice := price.Mul(one.Add(Slippage))
	received := spend.Div(execPrice)

	return fill{
		execPrice: execPrice,
		asset:     received,
		cash:      spend,
		after: types.Portfolio{
			Cash:  cash.Sub(spend),
			Asset: l.portfolio.Asset.Add(received),
		},
	}, true
}

// sell computes a sell against the current balances without mutating them.
// Fixed amounts do not apply to sells.
func (l *Ledger) sell(decision types.TradeDecision, price decimal.Decimal) (fill, bool) {
	fraction := DefaultFraction
	if pct, err := decision.Percentage.Take(); err == nil {
		fraction = pct
	}

	sold := l.portfolio.Asset.Mul(fraction)
	if !sold.IsPositive() {
		return fill{}, false
	}

	execPrice := price.Mul(one.Sub(Slippage))
	received := sold.Mul(execPrice)

	return fill{
		execPrice: execPrice,
		asset:     sold,
		cash:      received,
		after: types.Portfolio{
			Cash:  l.portfolio.Cash.Add(received),
			Asset: l.portfolio.Asset.Sub(sold),
		},
	}, true
}

// Portfolio returns a snapshot of the balances.
func (l *Ledger) Portfolio() types.Portfolio {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.portfolio
}

// Trades returns a copy of the executed trades, oldest first.
func (l *Ledger) Trades() []types.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Trade, len(l.trades))
	copy(out, l.trades)

	return out
}

// TradeCount returns the number of executed trades.
func (l *Ledger) TradeCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.trades)
}

// Snapshot returns the balances and trades under one lock.
func (l *Ledger) Snapshot() (types.Portfolio, []types.Trade) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Trade, len(l.trades))
	copy(out, l.trades)

	return l.portfolio, out
}

func (l *Ledger) InitialCash() decimal.Decimal {
	return l.initialCash
}

// Value returns cash + asset * price.
func (l *Ledger) Value(price decimal.Decimal) decimal.Decimal {
	return l.Portfolio().Value(price)
}

// ROI returns the percentage return relative to the initial cash.
func (l *Ledger) ROI(price decimal.Decimal) decimal.Decimal {
	return ROI(l.Value(price), l.initialCash)
}

// ROIBasisPoints returns ROI in basis points (1% = 100), rounded to the nearest integer.
func (l *Ledger) ROIBasisPoints(price decimal.Decimal) int64 {
	return ROIBasisPoints(l.Value(price), l.initialCash)
}

// Reset restores the starting balances and clears the trade history.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.portfolio = l.start
	l.trades = make([]types.Trade, 0)
}

// ROI returns (value - initial) / initial * 100. A zero initial balance yields zero.
func ROI(value, initial decimal.Decimal) decimal.Decimal {
	if initial.IsZero() {
		return decimal.Zero
	}

	return value.Sub(initial).Div(initial).Mul(hundred)
}

// ROIBasisPoints returns (value - initial) / initial * 10000 rounded to the
// nearest integer, with halves rounded up (-0.5 becomes 0).
func ROIBasisPoints(value, initial decimal.Decimal) int64 {
	if initial.IsZero() {
		return 0
	}

	return value.Sub(initial).Mul(tenK).Div(initial).Add(half).Floor().IntPart()
}
