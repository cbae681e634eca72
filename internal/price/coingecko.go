package price

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

const coinGeckoAPIKeyHeader = "x-cg-demo-api-key"

// CoinGeckoSource reads the simple price endpoint of the CoinGecko API.
type CoinGeckoSource struct {
	client *resty.Client
	cfg    config.CoinGeckoConfig
	now    func() time.Time
}

func NewCoinGeckoSource(client *resty.Client, cfg config.CoinGeckoConfig) *CoinGeckoSource {
	return &CoinGeckoSource{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *CoinGeckoSource) Name() types.PriceSourceType {
	return types.PriceSourceCoinGecko
}

func (s *CoinGeckoSource) FetchPrice(ctx context.Context) (types.PriceSample, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("ids", s.cfg.CoinID).
		SetQueryParam("vs_currencies", s.cfg.VsCurrency)

	if s.cfg.APIKey != "" {
		req.SetHeader(coinGeckoAPIKeyHeader, s.cfg.APIKey)
	}

	resp, err := req.Get(s.cfg.BaseURL + "/simple/price")
	if err != nil {
		return types.PriceSample{}, errors.Wrap(errors.ErrCodePriceSourceFailed, "coingecko request failed", err)
	}

	if resp.IsError() {
		return types.PriceSample{}, errors.Newf(errors.ErrCodePriceSourceFailed, "coingecko returned status %d", resp.StatusCode())
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return types.PriceSample{}, errors.Wrap(errors.ErrCodePriceSourceFailed, "invalid coingecko response", err)
	}

	value, ok := body[s.cfg.CoinID][s.cfg.VsCurrency]
	if !ok {
		return types.PriceSample{}, errors.New(errors.ErrCodePriceSourceFailed,
			fmt.Sprintf("coingecko response has no %s/%s price", s.cfg.CoinID, s.cfg.VsCurrency))
	}

	return types.PriceSample{
		Value:     value,
		Timestamp: s.now(),
		Source:    types.PriceSourceCoinGecko,
	}, nil
}
