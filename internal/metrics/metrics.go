// Package metrics exposes tournament counters and gauges in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/shopspring/decimal"
)

const namespace = "arena"

// Tick outcomes used as the "outcome" label of TicksTotal.
const (
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	TicksTotal          *prometheus.CounterVec
	TickDuration        prometheus.Histogram
	PriceFailuresTotal  *prometheus.CounterVec
	Price               *prometheus.GaugeVec
	TradesTotal         *prometheus.CounterVec
	AgentFailuresTotal  *prometheus.CounterVec
	AgentPortfolioValue *prometheus.GaugeVec
	AgentROIBasisPoints *prometheus.GaugeVec
	Agents              prometheus.Gauge
}

// New creates a fresh registry with every collector registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticks_total", Help: "Scheduler ticks by outcome"},
			[]string{"outcome"},
		),
		TickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Time spent evaluating all agents in one tick",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PriceFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "price_source_failures_total", Help: "Failed price fetches by source"},
			[]string{"source"},
		),
		Price: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "price", Help: "Last price used for a tick"},
			[]string{"source"},
		),
		TradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "trades_total", Help: "Executed trades"},
			[]string{"agent", "action"},
		),
		AgentFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "agent_failures_total", Help: "Agent evaluations that failed and were treated as hold"},
			[]string{"agent"},
		),
		AgentPortfolioValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "agent_portfolio_value", Help: "Portfolio value marked at the last price"},
			[]string{"agent"},
		),
		AgentROIBasisPoints: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "agent_roi_basis_points", Help: "Return on initial cash in basis points"},
			[]string{"agent"},
		),
		Agents: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "agents", Help: "Registered agents"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TicksTotal,
		m.TickDuration,
		m.PriceFailuresTotal,
		m.Price,
		m.TradesTotal,
		m.AgentFailuresTotal,
		m.AgentPortfolioValue,
		m.AgentROIBasisPoints,
		m.Agents,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveTick(sample types.PriceSample, elapsed time.Duration) {
	m.TicksTotal.WithLabelValues(OutcomeCompleted).Inc()
	m.TickDuration.Observe(elapsed.Seconds())
	m.Price.WithLabelValues(string(sample.Source)).Set(sample.Value.InexactFloat64())
}

func (m *Metrics) ObserveAbortedTick() {
	m.TicksTotal.WithLabelValues(OutcomeAborted).Inc()
}

func (m *Metrics) ObservePriceFailure(source types.PriceSourceType) {
	m.PriceFailuresTotal.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) ObserveTrade(agentID string, action types.TradeAction) {
	m.TradesTotal.WithLabelValues(agentID, string(action)).Inc()
}

func (m *Metrics) ObserveAgentFailure(agentID string) {
	m.AgentFailuresTotal.WithLabelValues(agentID).Inc()
}

func (m *Metrics) SetAgentScore(agentID string, value decimal.Decimal, roiBasisPoints int64) {
	m.AgentPortfolioValue.WithLabelValues(agentID).Set(value.InexactFloat64())
	m.AgentROIBasisPoints.WithLabelValues(agentID).Set(float64(roiBasisPoints))
}

func (m *Metrics) SetAgentCount(n int) {
	m.Agents.Set(float64(n))
}

// Reset clears per-agent series, e.g. when the tournament restarts.
func (m *Metrics) Reset() {
	m.AgentPortfolioValue.Reset()
	m.AgentROIBasisPoints.Reset()
}
