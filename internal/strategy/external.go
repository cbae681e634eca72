package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/portfolio"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// MinExternalFraction and MaxExternalFraction bound provider supplied percentages.
	MinExternalFraction = decimal.RequireFromString("0.1")
	MaxExternalFraction = decimal.RequireFromString("0.5")

	fallbackFraction = decimal.RequireFromString("0.3")
	fallbackMinCash  = decimal.NewFromInt(50)
	fallbackMinAsset = decimal.RequireFromString("0.1")
)

const externalSystemPrompt = `You are an automated trading agent competing in a simulated tournament.

You must respond with ONLY valid JSON in this exact format (no markdown, no explanation):
{"action": "BUY", "percentage": 0.5, "reason": "brief explanation"}

Where:
- action: must be exactly "BUY", "SELL", or "HOLD"
- percentage: a number between 0.1 and 0.5 (only for BUY/SELL)
- reason: a brief explanation of your decision`

// External delegates decisions to a DecisionProvider. When the provider fails
// or its reply cannot be parsed, it falls back to a simple RSI rule.
type External struct {
	provider    DecisionProvider
	initialCash decimal.Decimal
	logger      *logger.Logger
}

func NewExternal(provider DecisionProvider, initialCash decimal.Decimal, log *logger.Logger) *External {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &External{
		provider:    provider,
		initialCash: initialCash,
		logger:      log,
	}
}

func (e *External) Name() string {
	return "ExternalProvider"
}

func (e *External) Kind() types.StrategyKind {
	return types.StrategyKindExternal
}

func (e *External) Reset() {}

func (e *External) Decide(ctx context.Context, price decimal.Decimal, p types.Portfolio, ind types.Indicators) (types.TradeDecision, error) {
	tc := e.tradingContext(price, p, ind)

	reply, err := e.provider.RequestDecision(ctx, DecisionRequest{
		SystemPrompt: externalSystemPrompt,
		Prompt:       buildUserPrompt(tc),
		Context:      tc,
	})
	if err != nil {
		e.logger.Warn("decision provider failed, using fallback", zap.Error(err))

		return fallbackDecision(p, ind), nil
	}

	decision, err := ParseDecision(reply)
	if err != nil {
		e.logger.Warn("unparsable decision provider reply, using fallback",
			zap.String("reply", reply),
			zap.Error(err),
		)

		return fallbackDecision(p, ind), nil
	}

	return decision, nil
}

func (e *External) tradingContext(price decimal.Decimal, p types.Portfolio, ind types.Indicators) TradingContext {
	value := p.Value(price)

	return TradingContext{
		Price:          price,
		EMA20:          optionPtr(ind.EMA20),
		RSI14:          optionPtr(ind.RSI14),
		PreviousPrice:  optionPtr(ind.PreviousPrice),
		Cash:           p.Cash,
		Asset:          p.Asset,
		PortfolioValue: value,
		ROI:            portfolio.ROI(value, e.initialCash),
	}
}

func optionPtr(o optional.Option[decimal.Decimal]) *decimal.Decimal {
	v, err := o.Take()
	if err != nil {
		return nil
	}

	return &v
}

func formatOptional(v *decimal.Decimal, places int32) string {
	if v == nil {
		return "n/a"
	}

	return v.StringFixed(places)
}

func buildUserPrompt(tc TradingContext) string {
	var b strings.Builder

	b.WriteString("Current market data:\n")
	fmt.Fprintf(&b, "- Price: $%s\n", tc.Price.StringFixed(2))
	fmt.Fprintf(&b, "- 20-period EMA: $%s\n", formatOptional(tc.EMA20, 2))
	fmt.Fprintf(&b, "- RSI(14): %s\n", formatOptional(tc.RSI14, 1))
	fmt.Fprintf(&b, "- Previous Price: $%s\n", formatOptional(tc.PreviousPrice, 2))
	fmt.Fprintf(&b, "- Portfolio: %s cash, %s asset\n", tc.Cash.StringFixed(2), tc.Asset.StringFixed(4))
	fmt.Fprintf(&b, "- Portfolio Value: $%s\n", tc.PortfolioValue.StringFixed(2))
	fmt.Fprintf(&b, "- Current ROI: %s%%\n\n", tc.ROI.StringFixed(2))
	b.WriteString("What is your trading decision?")

	return b.String()
}

type providerReply struct {
	Action     string           `json:"action"`
	Percentage *decimal.Decimal `json:"percentage"`
	Reason     string           `json:"reason"`
}

// ParseDecision extracts the first JSON object from a provider reply and turns
// it into a decision. Percentages are clamped to [MinExternalFraction, MaxExternalFraction].
// An unrecognised action yields a hold.
func ParseDecision(reply string) (types.TradeDecision, error) {
	start := strings.Index(reply, "{")
	if start < 0 {
		return types.TradeDecision{}, errors.New(errors.ErrCodeDecisionProvider, "no JSON object in reply")
	}

	var parsed providerReply
	if err := json.NewDecoder(strings.NewReader(reply[start:])).Decode(&parsed); err != nil {
		return types.TradeDecision{}, errors.Wrap(errors.ErrCodeDecisionProvider, "invalid JSON object in reply", err)
	}

	action := strings.ToUpper(strings.TrimSpace(parsed.Action))
	if action == "" {
		action = "HOLD"
	}

	reason := parsed.Reason
	if reason == "" {
		reason = "External provider decision"
	}

	pct := optional.None[decimal.Decimal]()
	if parsed.Percentage != nil {
		pct = optional.Some(decimal.Min(MaxExternalFraction, decimal.Max(MinExternalFraction, *parsed.Percentage)))
	}

	switch action {
	case "BUY":
		return types.TradeDecision{
			Action:      types.TradeActionBuy,
			Percentage:  pct,
			FixedAmount: optional.None[decimal.Decimal](),
			Reason:      reason,
		}, nil
	case "SELL":
		return types.TradeDecision{
			Action:      types.TradeActionSell,
			Percentage:  pct,
			FixedAmount: optional.None[decimal.Decimal](),
			Reason:      reason,
		}, nil
	case "HOLD":
		return types.Hold(reason), nil
	default:
		return types.Hold("Invalid action from external provider"), nil
	}
}

func fallbackDecision(p types.Portfolio, ind types.Indicators) types.TradeDecision {
	rsi, err := ind.RSI14.Take()
	if err != nil {
		return types.Hold("Fallback: no clear signal")
	}

	if rsi.LessThan(Oversold) && p.Cash.GreaterThan(fallbackMinCash) {
		return types.BuyPercentage(fallbackFraction, "Fallback: RSI oversold")
	}

	if rsi.GreaterThan(Overbought) && p.Asset.GreaterThan(fallbackMinAsset) {
		return types.SellPercentage(fallbackFraction, "Fallback: RSI overbought")
	}

	return types.Hold("Fallback: no clear signal")
}
