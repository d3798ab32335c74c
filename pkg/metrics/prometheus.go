package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain Metrics using Prometheus.
type Recorder struct {
	scansTotal      *prometheus.CounterVec
	opportunities   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastScore       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	simulationsRun  prometheus.Counter
	simulationPaths prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asym_scans_total",
				Help: "Total number of symbol scans",
			},
			[]string{"result"},
		),
		opportunities: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asym_opportunities_total",
				Help: "Total opportunities produced, by guardrail status",
			},
			[]string{"status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asym_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "asym_last_score",
				Help: "Last overall score for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "asym_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		simulationsRun: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "asym_simulations_total",
				Help: "Total Monte Carlo simulations executed",
			},
		),
		simulationPaths: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "asym_simulation_paths_total",
				Help: "Total equity paths simulated",
			},
		),
	}
}

// RecordScan records a completed symbol scan with its result label.
func (r *Recorder) RecordScan(result string) {
	r.scansTotal.WithLabelValues(result).Inc()
}

// RecordOpportunity records an emitted opportunity by guardrail status.
func (r *Recorder) RecordOpportunity(status string) {
	r.opportunities.WithLabelValues(status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastScore records the last overall score for a symbol.
func (r *Recorder) RecordLastScore(symbol string, score float64) {
	r.lastScore.WithLabelValues(symbol).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordSimulation records a Monte Carlo run and its path count.
func (r *Recorder) RecordSimulation(paths int) {
	r.simulationsRun.Inc()
	r.simulationPaths.Add(float64(paths))
}
