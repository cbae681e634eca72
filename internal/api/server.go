// Package api exposes the tournament over REST and broadcasts live events to
// WebSocket clients.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/leaderboard"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/tournament"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"go.uber.org/zap"
)

// Server serves the REST routes and the WebSocket endpoint of one engine.
type Server struct {
	engine      *tournament.Engine
	leaderboard *leaderboard.Service
	hub         *Hub
	cfg         config.ServerConfig
	logger      *logger.Logger

	httpServer *http.Server
	listener   net.Listener
	cancel     context.CancelFunc
}

// NewServer creates the server and subscribes it to the engine's events.
// It replaces any callbacks previously set on the engine.
func NewServer(engine *tournament.Engine, cfg config.ServerConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &Server{
		engine:      engine,
		leaderboard: leaderboard.NewService(engine, cfg.LeaderboardCacheTTL),
		hub:         NewHub(log.Named("ws")),
		cfg:         cfg,
		logger:      log,
		httpServer:  nil,
		listener:    nil,
		cancel:      nil,
	}

	engine.SetCallbacks(s.callbacks())

	return s
}

func (s *Server) callbacks() tournament.Callbacks {
	onTick := tournament.OnTickCallback(func(result tournament.TickResult) {
		s.leaderboard.Invalidate()
		s.broadcast(MessagePriceUpdate, priceUpdate{
			Price:      result.Price.Value,
			Source:     result.Price.Source,
			Degraded:   result.Degraded,
			Indicators: indicatorsView(result.Indicators),
		})
	})

	onTrade := tournament.OnTradeCallback(func(agentID string, trade types.Trade) {
		s.broadcast(MessageTradeExecuted, tradeExecuted{AgentID: agentID, Trade: trade})
	})

	onStatus := tournament.OnStatusChangeCallback(func(status types.EngineStatus) {
		s.broadcast(MessageTournamentStatus, map[string]types.EngineStatus{"status": status})
	})

	return tournament.Callbacks{
		OnTick:             &onTick,
		OnTrade:            &onTrade,
		OnAgentError:       nil,
		OnPriceUnavailable: nil,
		OnStatusChange:     &onStatus,
	}
}

func (s *Server) broadcast(msgType string, data any) {
	if err := s.hub.Broadcast(msgType, data); err != nil {
		s.logger.Warn("Failed to broadcast", zap.String("type", msgType), zap.Error(err))
	}
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.engine.Metrics().Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/price", s.handlePrice).Methods(http.MethodGet)
	apiRouter.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	apiRouter.HandleFunc("/agents", s.handleListAgents).Methods(http.MethodGet)
	apiRouter.HandleFunc("/agents", s.handleRegisterAgent).Methods(http.MethodPost)
	apiRouter.HandleFunc("/agents/{id}", s.handleGetAgent).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tournament", s.handleTournament).Methods(http.MethodGet)
	apiRouter.HandleFunc("/tournament/start", s.handleStart).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tournament/stop", s.handleStop).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tournament/reset", s.handleReset).Methods(http.MethodPost)
	apiRouter.HandleFunc("/scores", s.handleScores).Methods(http.MethodGet)

	router.Handle("/ws", s.hub)

	return router
}

// Start listens on address and serves in the background. It also starts the
// periodic leaderboard broadcast. If address is empty or ":0", a random
// available port is used.
func (s *Server) Start(ctx context.Context, address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.broadcastLeaderboard(ctx)

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	s.logger.Info("API server listening", zap.String("address", listener.Addr().String()))

	return nil
}

func (s *Server) broadcastLeaderboard(ctx context.Context) {
	interval := s.cfg.LeaderboardBroadcastInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.BroadcastLeaderboard()
		}
	}
}

// BroadcastLeaderboard sends the current leaderboard to every client.
func (s *Server) BroadcastLeaderboard() {
	if s.hub.ClientCount() == 0 {
		return
	}

	s.broadcast(MessageLeaderboardUpdate, s.leaderboard.Leaderboard())
}

// Stop shuts the server down and disconnects every WebSocket client.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}

	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}
