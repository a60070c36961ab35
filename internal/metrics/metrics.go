// Package metrics holds the Prometheus collectors of the backtest engine,
// the signal aggregator and the precision gate.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source outcomes reported by the aggregator.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeNull    = "null"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	BacktestRuns   *prometheus.CounterVec
	BacktestTrades *prometheus.CounterVec
	SourceResults  *prometheus.CounterVec
	SourceLatency  *prometheus.HistogramVec
	GateDecisions  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BacktestRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bitinsight_backtest_runs_total",
			Help: "Number of completed backtest runs",
		}, []string{"strategy"}),
		BacktestTrades: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bitinsight_backtest_trades_total",
			Help: "Number of trades closed by backtest runs",
		}, []string{"strategy"}),
		SourceResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bitinsight_aggregator_source_results_total",
			Help: "Aggregator source calls by outcome",
		}, []string{"source", "outcome"}),
		SourceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bitinsight_aggregator_source_latency_seconds",
			Help:    "Latency of aggregator source calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bitinsight_gate_decisions_total",
			Help: "Precision gate decisions by status",
		}, []string{"status"}),
	}
}

// ObserveBacktest records one completed run.
func (m *Metrics) ObserveBacktest(strategy string, trades int) {
	if m == nil {
		return
	}

	m.BacktestRuns.WithLabelValues(strategy).Inc()
	m.BacktestTrades.WithLabelValues(strategy).Add(float64(trades))
}

// ObserveSource records one aggregator source call.
func (m *Metrics) ObserveSource(source, outcome string, latency time.Duration) {
	if m == nil {
		return
	}

	m.SourceResults.WithLabelValues(source, outcome).Inc()
	m.SourceLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// ObserveGate records one gate decision.
func (m *Metrics) ObserveGate(status string) {
	if m == nil {
		return
	}

	m.GateDecisions.WithLabelValues(status).Inc()
}
