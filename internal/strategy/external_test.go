package strategy_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/strategy"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/mocks"
	arenaerrors "github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ExternalStrategyTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockDecisionProvider
	strategy *strategy.External
	ctx      context.Context
}

func TestExternalStrategySuite(t *testing.T) {
	suite.Run(t, new(ExternalStrategyTestSuite))
}

func (suite *ExternalStrategyTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockDecisionProvider(suite.ctrl)
	suite.strategy = strategy.NewExternal(suite.provider, decimal.NewFromInt(1000), logger.NewNopLogger())
	suite.ctx = context.Background()
}

func (suite *ExternalStrategyTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rsiIndicators(rsi string) types.Indicators {
	ind := types.NoIndicators()
	ind.RSI14 = optional.Some(dec(rsi))

	return ind
}

func (suite *ExternalStrategyTestSuite) TestUsesProviderDecision() {
	var captured strategy.DecisionRequest
	suite.provider.EXPECT().RequestDecision(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req strategy.DecisionRequest) (string, error) {
			captured = req
			return "Sure! {\"action\": \"buy\", \"percentage\": 0.9, \"reason\": \"breakout\"} hope this helps", nil
		})

	p := types.Portfolio{Cash: dec("500"), Asset: dec("20")}
	decision, err := suite.strategy.Decide(suite.ctx, dec("30"), p, rsiIndicators("50"))
	suite.Require().NoError(err)

	suite.Equal(types.TradeActionBuy, decision.Action)
	pct, err := decision.Percentage.Take()
	suite.Require().NoError(err)
	suite.True(pct.Equal(dec("0.5")), "percentage is clamped to 0.5, got %s", pct)
	suite.Equal("breakout", decision.Reason)

	suite.True(captured.Context.PortfolioValue.Equal(dec("1100")))
	suite.True(captured.Context.ROI.Equal(dec("10")))
	suite.Nil(captured.Context.EMA20)
	suite.Require().NotNil(captured.Context.RSI14)
	suite.Contains(captured.Prompt, "RSI(14): 50.0")
	suite.Contains(captured.Prompt, "20-period EMA: $n/a")
	suite.NotEmpty(captured.SystemPrompt)
}

func (suite *ExternalStrategyTestSuite) TestProviderErrorFallsBackToRSI() {
	suite.provider.EXPECT().RequestDecision(gomock.Any(), gomock.Any()).
		Return("", errors.New("provider down")).Times(3)

	decision, err := suite.strategy.Decide(suite.ctx, dec("30"), types.Portfolio{Cash: dec("100"), Asset: decimal.Zero}, rsiIndicators("20"))
	suite.Require().NoError(err)
	suite.Equal(types.TradeActionBuy, decision.Action)
	suite.Equal("Fallback: RSI oversold", decision.Reason)

	decision, err = suite.strategy.Decide(suite.ctx, dec("30"), types.Portfolio{Cash: decimal.Zero, Asset: dec("1")}, rsiIndicators("80"))
	suite.Require().NoError(err)
	suite.Equal(types.TradeActionSell, decision.Action)

	// oversold but cash at the fallback floor
	decision, err = suite.strategy.Decide(suite.ctx, dec("30"), types.Portfolio{Cash: dec("50"), Asset: decimal.Zero}, rsiIndicators("20"))
	suite.Require().NoError(err)
	suite.True(decision.IsHold())
}

func (suite *ExternalStrategyTestSuite) TestUnparsableReplyFallsBack() {
	suite.provider.EXPECT().RequestDecision(gomock.Any(), gomock.Any()).Return("I think you should buy", nil)

	decision, err := suite.strategy.Decide(suite.ctx, dec("30"), types.Portfolio{Cash: dec("100"), Asset: decimal.Zero}, types.NoIndicators())
	suite.Require().NoError(err)
	suite.True(decision.IsHold())
	suite.Equal("Fallback: no clear signal", decision.Reason)
}

func (suite *ExternalStrategyTestSuite) TestParseDecision() {
	tests := []struct {
		name    string
		reply   string
		action  types.TradeAction
		pct     string
		wantErr bool
	}{
		{name: "sell clamped up", reply: `{"action":"SELL","percentage":0.01,"reason":"r"}`, action: types.TradeActionSell, pct: "0.1"},
		{name: "hold ignores percentage", reply: `{"action":"HOLD","percentage":0.3}`, action: types.TradeActionHold},
		{name: "missing action is hold", reply: `{"reason":"wait"}`, action: types.TradeActionHold},
		{name: "unknown action is hold", reply: `{"action":"SHORT"}`, action: types.TradeActionHold},
		{name: "buy without percentage", reply: `{"action":"BUY"}`, action: types.TradeActionBuy},
		{name: "no object", reply: "HOLD", wantErr: true},
		{name: "broken object", reply: `{"action": `, wantErr: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			decision, err := strategy.ParseDecision(tt.reply)
			if tt.wantErr {
				suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeDecisionProvider))
				return
			}

			suite.Require().NoError(err)
			suite.Equal(tt.action, decision.Action)
			suite.NotEmpty(decision.Reason)

			if tt.pct == "" {
				suite.True(decision.Percentage.IsNone())
				return
			}

			pct, err := decision.Percentage.Take()
			suite.Require().NoError(err)
			suite.True(pct.Equal(dec(tt.pct)))
		})
	}
}

func (suite *ExternalStrategyTestSuite) TestFactoryBuildsExternal() {
	s, err := strategy.New(types.StrategyKindExternal, strategy.Options{
		Provider:    suite.provider,
		InitialCash: decimal.NewFromInt(1000),
		Logger:      nil,
	})
	suite.Require().NoError(err)
	suite.Equal(types.StrategyKindExternal, s.Kind())
}

func (suite *ExternalStrategyTestSuite) TestHTTPDecisionProvider() {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal(http.MethodPost, r.Method)
		suite.Equal("Bearer secret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		suite.Require().NoError(err)
		suite.Require().NoError(json.Unmarshal(body, &payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "{\"action\":\"HOLD\",\"reason\":\"flat\"}"}`))
	}))
	defer server.Close()

	provider, err := strategy.NewHTTPDecisionProvider(config.ExternalConfig{
		Endpoint:    server.URL,
		APIKey:      "secret",
		Model:       "gemini-1.5-flash",
		Temperature: 0.3,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	})
	suite.Require().NoError(err)

	reply, err := provider.RequestDecision(suite.ctx, strategy.DecisionRequest{
		SystemPrompt: "system",
		Prompt:       "prompt",
		Context:      strategy.TradingContext{Price: dec("30")},
	})
	suite.Require().NoError(err)
	suite.Equal(`{"action":"HOLD","reason":"flat"}`, reply)
	suite.Equal("gemini-1.5-flash", payload["model"])
	suite.Equal("prompt", payload["prompt"])
}

func (suite *ExternalStrategyTestSuite) TestHTTPDecisionProviderErrors() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := strategy.NewHTTPDecisionProvider(config.ExternalConfig{Endpoint: server.URL, Timeout: time.Second})
	suite.Require().NoError(err)

	_, err = provider.RequestDecision(suite.ctx, strategy.DecisionRequest{})
	suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeDecisionProvider))

	_, err = strategy.NewHTTPDecisionProvider(config.ExternalConfig{})
	suite.True(arenaerrors.HasCode(err, arenaerrors.ErrCodeInvalidConfiguration))
}
