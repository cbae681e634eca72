package price

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
)

// Source fetches the current price of the tracked asset from one upstream.
// A source makes a single attempt per call; retrying is the oracle's job.
type Source interface {
	Name() types.PriceSourceType
	FetchPrice(ctx context.Context) (types.PriceSample, error)
}

// NewSource builds the source of the given kind from configuration.
// Unknown kinds fail with ErrCodeUnknownPriceSource.
func NewSource(kind types.PriceSourceType, cfg config.PriceConfig) (Source, error) {
	switch kind {
	case types.PriceSourceCoinGecko:
		return NewCoinGeckoSource(newRestClient(cfg.RequestTimeout), cfg.CoinGecko), nil
	case types.PriceSourceMultiversX:
		return NewMultiversXSource(newRestClient(cfg.RequestTimeout), cfg.MultiversX), nil
	case types.PriceSourceBinance:
		return NewBinanceSource(cfg.Binance), nil
	case types.PriceSourcePolygon:
		return NewPolygonSource(cfg.Polygon)
	case types.PriceSourceStatic:
		return NewStaticSource(cfg.Static), nil
	case types.PriceSourceSynthetic:
		return NewSyntheticSource(cfg.Synthetic), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownPriceSource, "unknown price source %q", kind)
	}
}

func newRestClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}
