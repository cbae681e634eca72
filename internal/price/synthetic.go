package price

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

// SyntheticSource produces a reproducible geometric random walk. Every call
// advances the walk by one step.
type SyntheticSource struct {
	mu      sync.Mutex
	rng     *rand.Rand
	cfg     config.SyntheticConfig
	current float64
	now     func() time.Time
}

func NewSyntheticSource(cfg config.SyntheticConfig) *SyntheticSource {
	return &SyntheticSource{
		mu:      sync.Mutex{},
		rng:     rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // simulation only
		cfg:     cfg,
		current: cfg.InitialPrice,
		now:     time.Now,
	}
}

func (s *SyntheticSource) Name() types.PriceSourceType {
	return types.PriceSourceSynthetic
}

func (s *SyntheticSource) FetchPrice(_ context.Context) (types.PriceSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.current
	s.current = s.step(s.current)

	return types.PriceSample{
		Value:     decimal.NewFromFloat(roundToDecimals(value, 4)),
		Timestamp: s.now(),
		Source:    types.PriceSourceSynthetic,
	}, nil
}

// step applies one normally distributed relative move, using the Box-Muller transform.
func (s *SyntheticSource) step(price float64) float64 {
	u1 := 1 - s.rng.Float64()
	u2 := s.rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	next := price * (1 + s.cfg.Volatility*z + s.cfg.Drift)
	if next <= 0 {
		// Prevent negative prices
		next = price * 0.99
	}

	return next
}

// GenerateSeries returns n consecutive synthetic prices for cfg.
func GenerateSeries(cfg config.SyntheticConfig, n int) []decimal.Decimal {
	source := NewSyntheticSource(cfg)
	out := make([]decimal.Decimal, 0, n)

	for i := 0; i < n; i++ {
		sample, _ := source.FetchPrice(context.Background())
		out = append(out, sample.Value)
	}

	return out
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
