package price

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

// StaticSource always returns the same configured price. Used for dry runs.
type StaticSource struct {
	value decimal.Decimal
	now   func() time.Time
}

func NewStaticSource(cfg config.StaticPriceConfig) *StaticSource {
	return &StaticSource{
		value: decimal.NewFromFloat(cfg.Price),
		now:   time.Now,
	}
}

func (s *StaticSource) Name() types.PriceSourceType {
	return types.PriceSourceStatic
}

func (s *StaticSource) FetchPrice(_ context.Context) (types.PriceSample, error) {
	return types.PriceSample{
		Value:     s.value,
		Timestamp: s.now(),
		Source:    types.PriceSourceStatic,
	}, nil
}
