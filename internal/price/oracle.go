// Package price acquires the tracked asset's price from a primary and a
// fallback source, caches the latest sample and keeps a bounded history.
package price

import (
	"context"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/indicator"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultCacheTTL is how long a fetched sample is served without refetching.
	DefaultCacheTTL = 30 * time.Second
	// DefaultRequestTimeout bounds a single source attempt.
	DefaultRequestTimeout = 10 * time.Second
)

// OracleConfig configures an Oracle. Zero durations take the defaults; use
// WithoutCache to fetch on every lookup.
type OracleConfig struct {
	Primary Source
	// Fallback is optional.
	Fallback        Source
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	HistoryCapacity int
}

// Quote is the outcome of one oracle lookup.
type Quote struct {
	Sample types.PriceSample
	// Fresh is true when the sample was fetched from a source by this call.
	Fresh bool
	// Degraded is true when every source failed and a stale sample was served.
	Degraded bool
	// Indicators are computed over the history as of Sample.
	Indicators types.Indicators
}

// SourceFailureHook is called for every failed source attempt.
type SourceFailureHook func(source types.PriceSourceType, err error)

// Oracle serves the current price. Lookups are serialized so concurrent
// callers never fetch the same stale cache twice.
type Oracle struct {
	mu       sync.Mutex
	sources  []Source
	cacheTTL time.Duration
	timeout  time.Duration
	cached   optional.Option[types.PriceSample]
	history  *History
	log      *logger.Logger
	now      func() time.Time
	onFail   SourceFailureHook
}

// OracleOption customizes an Oracle.
type OracleOption func(*Oracle)

// WithClock replaces the wall clock used for cache expiry.
func WithClock(now func() time.Time) OracleOption {
	return func(o *Oracle) {
		o.now = now
	}
}

// WithoutCache makes every lookup go to the sources.
func WithoutCache() OracleOption {
	return func(o *Oracle) {
		o.cacheTTL = 0
	}
}

// WithSourceFailureHook registers a hook for failed source attempts.
func WithSourceFailureHook(hook SourceFailureHook) OracleOption {
	return func(o *Oracle) {
		o.onFail = hook
	}
}

// NewOracle creates an Oracle over the primary and optional fallback source.
func NewOracle(cfg OracleConfig, log *logger.Logger, opts ...OracleOption) (*Oracle, error) {
	if cfg.Primary == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "price oracle requires a primary source")
	}

	sources := []Source{cfg.Primary}
	if cfg.Fallback != nil {
		sources = append(sources, cfg.Fallback)
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	o := &Oracle{
		mu:       sync.Mutex{},
		sources:  sources,
		cacheTTL: cacheTTL,
		timeout:  timeout,
		cached:   optional.None[types.PriceSample](),
		history:  NewHistory(cfg.HistoryCapacity),
		log:      log,
		now:      time.Now,
		onFail:   nil,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// GetPrice returns the current price sample.
func (o *Oracle) GetPrice(ctx context.Context) (types.PriceSample, error) {
	quote, err := o.Quote(ctx)
	if err != nil {
		return types.PriceSample{}, err
	}

	return quote.Sample, nil
}

// Quote returns the current price together with how it was obtained.
//
// A cached sample younger than the cache TTL is returned unchanged. Otherwise
// each source is tried once, in order, each under its own timeout; the first
// success is cached and appended to the history. If every source fails the last
// cached sample is returned regardless of age. With nothing cached the lookup
// fails with ErrCodePriceUnavailable.
func (o *Oracle) Quote(ctx context.Context) (Quote, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cached, err := o.cached.Take(); err == nil && cached.Age(o.now()) < o.cacheTTL {
		return Quote{Sample: cached, Fresh: false, Degraded: false, Indicators: o.indicators()}, nil
	}

	var lastErr error

	for _, source := range o.sources {
		sample, err := o.fetch(ctx, source)
		if err != nil {
			lastErr = err
			o.log.Warn("price source failed",
				zap.String("source", string(source.Name())),
				zap.Error(err),
			)

			if o.onFail != nil {
				o.onFail(source.Name(), err)
			}

			continue
		}

		o.cached = optional.Some(sample)
		o.history.Push(sample.Value)

		return Quote{Sample: sample, Fresh: true, Degraded: false, Indicators: o.indicators()}, nil
	}

	if cached, err := o.cached.Take(); err == nil {
		o.log.Warn("all price sources failed, serving stale price",
			zap.String("price", cached.Value.String()),
			zap.Duration("age", cached.Age(o.now())),
		)

		return Quote{Sample: cached, Fresh: false, Degraded: true, Indicators: o.indicators()}, nil
	}

	return Quote{}, errors.Wrap(errors.ErrCodePriceUnavailable, "unable to fetch price from any source", lastErr)
}

func (o *Oracle) fetch(ctx context.Context, source Source) (types.PriceSample, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	sample, err := source.FetchPrice(fetchCtx)
	if err != nil {
		return types.PriceSample{}, err
	}

	// a source that ignores its context still counts as timed out
	if fetchCtx.Err() != nil {
		return types.PriceSample{}, errors.Wrapf(errors.ErrCodePriceSourceFailed, fetchCtx.Err(), "%s timed out", source.Name())
	}

	if !sample.Value.IsPositive() {
		return types.PriceSample{}, errors.Newf(errors.ErrCodePriceSourceFailed, "%s returned non-positive price %s", source.Name(), sample.Value)
	}

	if sample.Timestamp.IsZero() {
		sample.Timestamp = o.now()
	}

	sample.Source = source.Name()

	return sample, nil
}

// History returns a copy of the price history, oldest first.
func (o *Oracle) History() []decimal.Decimal {
	return o.history.Values()
}

// Latest returns the most recently cached sample, if any.
func (o *Oracle) Latest() optional.Option[types.PriceSample] {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.cached
}

// Indicators derives the indicator set from the current history.
func (o *Oracle) Indicators() types.Indicators {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.indicators()
}

// indicators must be called with o.mu held.
func (o *Oracle) indicators() types.Indicators {
	return indicator.Compute(o.history.Values())
}

// NewOracleFromConfig builds the configured primary and fallback sources and
// wraps them in an Oracle.
func NewOracleFromConfig(cfg config.PriceConfig, log *logger.Logger, opts ...OracleOption) (*Oracle, error) {
	primary, err := NewSource(types.PriceSourceType(cfg.Primary), cfg)
	if err != nil {
		return nil, err
	}

	var fallback Source
	if cfg.Fallback != "" {
		fallback, err = NewSource(types.PriceSourceType(cfg.Fallback), cfg)
		if err != nil {
			return nil, err
		}
	}

	// The config layer applies its own defaults, so a zero TTL there is explicit.
	if cfg.CacheTTL == 0 {
		opts = append([]OracleOption{WithoutCache()}, opts...)
	}

	return NewOracle(OracleConfig{
		Primary:         primary,
		Fallback:        fallback,
		CacheTTL:        cfg.CacheTTL,
		RequestTimeout:  cfg.RequestTimeout,
		HistoryCapacity: cfg.HistoryCapacity,
	}, log, opts...)
}
