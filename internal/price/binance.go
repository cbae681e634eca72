package price

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// BinanceSource reads the latest ticker price of a Binance spot symbol.
type BinanceSource struct {
	client *binance.Client
	symbol string
	now    func() time.Time
}

func NewBinanceSource(cfg config.BinanceConfig) *BinanceSource {
	// public market data endpoints need no credentials
	client := binance.NewClient("", "")
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}

	return &BinanceSource{
		client: client,
		symbol: cfg.Symbol,
		now:    time.Now,
	}
}

func (s *BinanceSource) Name() types.PriceSourceType {
	return types.PriceSourceBinance
}

func (s *BinanceSource) FetchPrice(ctx context.Context) (types.PriceSample, error) {
	prices, err := s.client.NewListPricesService().Symbol(s.symbol).Do(ctx)
	if err != nil {
		return types.PriceSample{}, errors.Wrapf(errors.ErrCodePriceSourceFailed, err, "binance ticker request for %s failed", s.symbol)
	}

	for _, p := range prices {
		if p.Symbol != s.symbol {
			continue
		}

		value, err := decimal.NewFromString(p.Price)
		if err != nil {
			return types.PriceSample{}, errors.Wrapf(errors.ErrCodePriceSourceFailed, err, "invalid binance price %q", p.Price)
		}

		return types.PriceSample{
			Value:     value,
			Timestamp: s.now(),
			Source:    types.PriceSourceBinance,
		}, nil
	}

	return types.PriceSample{}, errors.Newf(errors.ErrCodePriceSourceFailed, "binance returned no price for %s", s.symbol)
}
