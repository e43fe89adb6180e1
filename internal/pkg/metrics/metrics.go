// Package metrics provides Prometheus metrics for the seed checker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chain query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Price lookup results.
const (
	PriceCacheHit = "hit"
	PriceFetched  = "fetched"
	PriceUnknown  = "unknown_symbol"
	PriceFailed   = "failed"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Search loop metrics
	Attempts prometheus.Counter
	Findings prometheus.Counter

	// Generation metrics: every candidate draw, accepted or rejected by the checksum
	MnemonicDraws *prometheus.CounterVec

	// Chain metrics
	ChainQueries      *prometheus.CounterVec
	ChainQueryLatency *prometheus.HistogramVec
	PriceLookups      *prometheus.CounterVec
}

// NewMetrics registers all metrics on reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "seed_checker"
	}
	f := promauto.With(reg)

	return &Metrics{
		Attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_attempts_total",
			Help:      "Mnemonics checked by the search loop",
		}),
		Findings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_findings_total",
			Help:      "Mnemonics with a funded address",
		}),
		MnemonicDraws: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mnemonic_draws_total",
			Help:      "Random word draws by checksum result",
		}, []string{"result"}),
		ChainQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_queries_total",
			Help:      "Balance queries by chain and outcome",
		}, []string{"chain", "outcome"}),
		ChainQueryLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_query_duration_seconds",
			Help:      "Balance query latency by chain",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chain"}),
		PriceLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_lookups_total",
			Help:      "Price oracle lookups by result",
		}, []string{"result"}),
	}
}

// RecordAttempt counts one search round.
func (m *Metrics) RecordAttempt() {
	if m == nil {
		return
	}
	m.Attempts.Inc()
}

// RecordFinding counts one finding.
func (m *Metrics) RecordFinding() {
	if m == nil {
		return
	}
	m.Findings.Inc()
}

// RecordDraw counts one candidate draw.
func (m *Metrics) RecordDraw(accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.MnemonicDraws.WithLabelValues(result).Inc()
}

// RecordChainQuery counts one chain query and its latency.
func (m *Metrics) RecordChainQuery(chain, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ChainQueries.WithLabelValues(chain, outcome).Inc()
	m.ChainQueryLatency.WithLabelValues(chain).Observe(d.Seconds())
}

// RecordPriceLookup counts one oracle lookup.
func (m *Metrics) RecordPriceLookup(result string) {
	if m == nil {
		return
	}
	m.PriceLookups.WithLabelValues(result).Inc()
}
