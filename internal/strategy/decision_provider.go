package strategy

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
)

// TradingContext is the market and portfolio state shown to an external provider.
type TradingContext struct {
	Price          decimal.Decimal  `json:"price"`
	EMA20          *decimal.Decimal `json:"ema20,omitempty"`
	RSI14          *decimal.Decimal `json:"rsi14,omitempty"`
	PreviousPrice  *decimal.Decimal `json:"previousPrice,omitempty"`
	Cash           decimal.Decimal  `json:"cash"`
	Asset          decimal.Decimal  `json:"asset"`
	PortfolioValue decimal.Decimal  `json:"portfolioValue"`
	// ROI is a percentage, e.g. 2.5 for +2.5%.
	ROI decimal.Decimal `json:"roi"`
}

// DecisionRequest is one prompt sent to a decision provider.
type DecisionRequest struct {
	SystemPrompt string         `json:"systemPrompt"`
	Prompt       string         `json:"prompt"`
	Context      TradingContext `json:"context"`
}

// DecisionProvider returns the raw text reply for a decision request.
// The reply is expected to contain a JSON object with action, percentage and reason.
type DecisionProvider interface {
	RequestDecision(ctx context.Context, req DecisionRequest) (string, error)
}

// HTTPDecisionProvider posts decision requests to a remote completion endpoint.
type HTTPDecisionProvider struct {
	client *resty.Client
	cfg    config.ExternalConfig
}

type httpDecisionPayload struct {
	Model       string         `json:"model"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"maxTokens"`
	System      string         `json:"system"`
	Prompt      string         `json:"prompt"`
	Context     TradingContext `json:"context"`
}

type httpDecisionResponse struct {
	Text string `json:"text"`
}

// NewHTTPDecisionProvider creates a provider for cfg.Endpoint. The endpoint is required.
func NewHTTPDecisionProvider(cfg config.ExternalConfig) (*HTTPDecisionProvider, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "decision provider endpoint is required")
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPDecisionProvider{
		client: client,
		cfg:    cfg,
	}, nil
}

func (p *HTTPDecisionProvider) RequestDecision(ctx context.Context, req DecisionRequest) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(httpDecisionPayload{
			Model:       p.cfg.Model,
			Temperature: p.cfg.Temperature,
			MaxTokens:   p.cfg.MaxTokens,
			System:      req.SystemPrompt,
			Prompt:      req.Prompt,
			Context:     req.Context,
		}).
		Post(p.cfg.Endpoint)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDecisionProvider, "decision provider request failed", err)
	}

	if resp.IsError() {
		return "", errors.Newf(errors.ErrCodeDecisionProvider, "decision provider returned status %d", resp.StatusCode())
	}

	// Providers either wrap the completion in {"text": ...} or return it raw.
	var body httpDecisionResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Text != "" {
		return body.Text, nil
	}

	return strings.TrimSpace(string(resp.Body())), nil
}
