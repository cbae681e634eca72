package price

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// MultiversXSource reads the EGLD price from the MultiversX API economics endpoint.
type MultiversXSource struct {
	client *resty.Client
	cfg    config.MultiversXConfig
	now    func() time.Time
}

func NewMultiversXSource(client *resty.Client, cfg config.MultiversXConfig) *MultiversXSource {
	return &MultiversXSource{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *MultiversXSource) Name() types.PriceSourceType {
	return types.PriceSourceMultiversX
}

type economicsResponse struct {
	Price *decimal.Decimal `json:"price"`
}

func (s *MultiversXSource) FetchPrice(ctx context.Context) (types.PriceSample, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(strings.TrimSuffix(s.cfg.APIURL, "/") + "/economics")
	if err != nil {
		return types.PriceSample{}, errors.Wrap(errors.ErrCodePriceSourceFailed, "multiversx request failed", err)
	}

	if resp.IsError() {
		return types.PriceSample{}, errors.Newf(errors.ErrCodePriceSourceFailed, "multiversx returned status %d", resp.StatusCode())
	}

	var body economicsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return types.PriceSample{}, errors.Wrap(errors.ErrCodePriceSourceFailed, "invalid multiversx response", err)
	}

	if body.Price == nil {
		return types.PriceSample{}, errors.New(errors.ErrCodePriceSourceFailed, "multiversx response has no price")
	}

	return types.PriceSample{
		Value:     *body.Price,
		Timestamp: s.now(),
		Source:    types.PriceSourceMultiversX,
	}, nil
}
