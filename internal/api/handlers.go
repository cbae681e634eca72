package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-arena/internal/portfolio"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// envelope wraps every REST response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type indicators struct {
	EMA20         optional.Option[decimal.Decimal] `json:"ema20"`
	RSI14         optional.Option[decimal.Decimal] `json:"rsi14"`
	PreviousPrice optional.Option[decimal.Decimal] `json:"previousPrice"`
}

func indicatorsView(ind types.Indicators) indicators {
	return indicators(ind)
}

type priceUpdate struct {
	Price      decimal.Decimal       `json:"price"`
	Source     types.PriceSourceType `json:"source"`
	Degraded   bool                  `json:"degraded"`
	Indicators indicators            `json:"indicators"`
}

type tradeExecuted struct {
	AgentID string      `json:"agentId"`
	Trade   types.Trade `json:"trade"`
}

type priceResponse struct {
	Price      decimal.Decimal       `json:"price"`
	Timestamp  time.Time             `json:"timestamp"`
	Source     types.PriceSourceType `json:"source"`
	Indicators indicators            `json:"indicators"`
}

type agentResponse struct {
	types.AgentRecord
	Rank           int             `json:"rank"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	ROI            decimal.Decimal `json:"roi"`
}

type registerRequest struct {
	AgentID       string `json:"agentId"`
	PlayerAddress string `json:"playerAddress"`
	StrategyType  string `json:"strategyType"`
}

type tournamentResponse struct {
	Running      bool                  `json:"running"`
	AgentCount   int                   `json:"agentCount"`
	TickInterval string                `json:"tickInterval"`
	InitialCash  decimal.Decimal       `json:"initialCash"`
	Stats        types.TournamentStats `json:"stats"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) ok(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data, Error: ""})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, envelope{Success: false, Data: nil, Error: err.Error()})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errors.GetCode(err)

	switch {
	case code == errors.ErrCodeDuplicateAgent:
		return http.StatusConflict
	case code.IsValidation():
		return http.StatusBadRequest
	case code == errors.ErrCodeAgentNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodePriceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.ok(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"running":   s.engine.IsRunning(),
		"agents":    s.engine.AgentCount(),
		"clients":   s.hub.ClientCount(),
		"timestamp": time.Now(),
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	sample, err := s.engine.CurrentPrice(r.Context())
	if err != nil {
		s.fail(w, err)

		return
	}

	s.ok(w, http.StatusOK, priceResponse{
		Price:      sample.Value,
		Timestamp:  sample.Timestamp,
		Source:     sample.Source,
		Indicators: indicatorsView(s.engine.Indicators()),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb := s.leaderboard.Leaderboard()

	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 0 {
			s.fail(w, errors.Newf(errors.ErrCodeInvalidParameter, "invalid top %q", top))

			return
		}

		lb.Entries = s.leaderboard.TopAgents(n)
	}

	s.ok(w, http.StatusOK, lb)
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	s.ok(w, http.StatusOK, s.engine.Agents())
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := s.engine.GetAgent(id)
	if err != nil {
		s.fail(w, err)

		return
	}

	entry, err := s.leaderboard.AgentRank(id)
	if err != nil {
		// Registered after the cached leaderboard was built.
		s.leaderboard.Invalidate()

		entry, err = s.leaderboard.AgentRank(id)
		if err != nil {
			s.fail(w, err)

			return
		}
	}

	lastPrice := decimal.Zero
	if sample, err := s.engine.LastPrice().Take(); err == nil {
		lastPrice = sample.Value
	}

	value := record.Portfolio.Value(lastPrice)

	s.ok(w, http.StatusOK, agentResponse{
		AgentRecord:    record,
		Rank:           entry.Rank,
		PortfolioValue: value,
		ROI:            portfolio.ROI(value, record.InitialCash),
	})
}

func (s *Server) handleRegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid request body", err))

		return
	}

	kind, err := types.ParseStrategyKind(req.StrategyType)
	if err != nil {
		s.fail(w, err)

		return
	}

	record, err := s.engine.RegisterAgent(req.AgentID, req.PlayerAddress, kind)
	if err != nil {
		s.fail(w, err)

		return
	}

	s.leaderboard.Invalidate()
	s.ok(w, http.StatusCreated, record)
}

func (s *Server) tournamentState() tournamentResponse {
	cfg := s.engine.Config()

	return tournamentResponse{
		Running:      s.engine.IsRunning(),
		AgentCount:   s.engine.AgentCount(),
		TickInterval: cfg.TickInterval.String(),
		InitialCash:  cfg.InitialCash,
		Stats:        s.engine.Stats(),
	}
}

func (s *Server) handleTournament(w http.ResponseWriter, _ *http.Request) {
	s.ok(w, http.StatusOK, s.tournamentState())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	// The scheduler outlives the request.
	s.engine.Start(context.WithoutCancel(r.Context()))
	s.ok(w, http.StatusOK, s.tournamentState())
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.engine.Stop()
	s.ok(w, http.StatusOK, s.tournamentState())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.engine.ResetAll()
	s.leaderboard.Invalidate()
	s.ok(w, http.StatusOK, s.tournamentState())
}

func (s *Server) handleScores(w http.ResponseWriter, _ *http.Request) {
	s.ok(w, http.StatusOK, s.engine.AgentScores())
}
