package price

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// LastCryptoTradeClient is the part of the Polygon REST client the source uses.
type LastCryptoTradeClient interface {
	GetLastCryptoTrade(ctx context.Context, params *models.GetLastCryptoTradeParams, options ...models.RequestOption) (*models.GetLastCryptoTradeResponse, error)
}

// PolygonSource reads the last crypto trade for a currency pair from Polygon.
type PolygonSource struct {
	client LastCryptoTradeClient
	from   string
	to     string
	now    func() time.Time
}

func NewPolygonSource(cfg config.PolygonConfig) (*PolygonSource, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon price source requires an api key")
	}

	return NewPolygonSourceWithClient(polygon.New(cfg.APIKey), cfg), nil
}

// NewPolygonSourceWithClient builds a source around an existing client.
func NewPolygonSourceWithClient(client LastCryptoTradeClient, cfg config.PolygonConfig) *PolygonSource {
	return &PolygonSource{
		client: client,
		from:   cfg.From,
		to:     cfg.To,
		now:    time.Now,
	}
}

func (s *PolygonSource) Name() types.PriceSourceType {
	return types.PriceSourcePolygon
}

func (s *PolygonSource) FetchPrice(ctx context.Context) (types.PriceSample, error) {
	resp, err := s.client.GetLastCryptoTrade(ctx, &models.GetLastCryptoTradeParams{
		From: s.from,
		To:   s.to,
	})
	if err != nil {
		return types.PriceSample{}, errors.Wrapf(errors.ErrCodePriceSourceFailed, err, "polygon last trade request for %s-%s failed", s.from, s.to)
	}

	if resp == nil || resp.Last.Price <= 0 {
		return types.PriceSample{}, errors.Newf(errors.ErrCodePriceSourceFailed, "polygon returned no trade for %s-%s", s.from, s.to)
	}

	return types.PriceSample{
		Value:     decimal.NewFromFloat(resp.Last.Price),
		Timestamp: s.now(),
		Source:    types.PriceSourcePolygon,
	}, nil
}
