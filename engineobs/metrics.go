// Package engineobs holds the engine's observability surface: Prometheus
// metrics grounded on the teacher's internal/metrics.Filter, and a minimal
// Sentry-backed error collector grounded on internal/errcoll, for the demo
// CLI's rule-list open and load failures.
package engineobs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "urlfilter"

const subsystemEngine = "engine"

// Metrics is the Prometheus-backed metrics for one Engine. It mirrors the
// shape of internal/metrics.Filter: a set of GaugeVec/CounterVec fields,
// each registered once at construction.
type Metrics struct {
	// matchesTotal counts Match/Search calls by outcome ("hit" or "miss").
	matchesTotal *prometheus.CounterVec

	// cacheLookupsTotal counts result-cache lookups by outcome ("hit" or
	// "miss").
	cacheLookupsTotal *prometheus.CounterVec

	// rulesLoaded is the gauge with the number of rules currently indexed,
	// by list ID and kind ("blocking" or "whitelist").
	rulesLoaded *prometheus.GaugeVec

	// keywordBucketSize is a histogram of how many filters land in a single
	// keyword bucket, observed on each LoadRules call — a direct signal for
	// the keyword-rarity heuristic's effectiveness (spec §4.3).
	keywordBucketSize prometheus.Histogram
}

// NewMetrics registers the engine's metrics in reg and returns a properly
// initialized *Metrics.
func NewMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	m = &Metrics{
		matchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "matches_total",
			Subsystem: subsystemEngine,
			Namespace: namespace,
			Help:      "Total number of Match/Search calls, by outcome.",
		}, []string{"outcome"}),

		cacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "cache_lookups_total",
			Subsystem: subsystemEngine,
			Namespace: namespace,
			Help:      "Total number of result-cache lookups, by outcome.",
		}, []string{"outcome"}),

		rulesLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "rules_loaded",
			Subsystem: subsystemEngine,
			Namespace: namespace,
			Help:      "The number of rules currently indexed, by list and kind.",
		}, []string{"list", "kind"}),

		keywordBucketSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "keyword_bucket_size",
			Subsystem: subsystemEngine,
			Namespace: namespace,
			Help:      "Distribution of filter counts per keyword bucket.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.matchesTotal,
		m.cacheLookupsTotal,
		m.rulesLoaded,
		m.keywordBucketSize,
	} {
		err = reg.Register(c)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveMatch records the outcome of a single Match/Search call.
func (m *Metrics) ObserveMatch(hit bool) {
	m.matchesTotal.WithLabelValues(outcomeLabel(hit)).Inc()
}

// ObserveCacheLookup records the outcome of a single result-cache lookup.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	m.cacheLookupsTotal.WithLabelValues(outcomeLabel(hit)).Inc()
}

// SetRulesLoaded sets the current rule count for listID and kind.
func (m *Metrics) SetRulesLoaded(listID, kind string, n int) {
	m.rulesLoaded.WithLabelValues(listID, kind).Set(float64(n))
}

// ObserveKeywordBucketSize records the size of a keyword bucket.
func (m *Metrics) ObserveKeywordBucketSize(n int) {
	m.keywordBucketSize.Observe(float64(n))
}

func outcomeLabel(hit bool) (label string) {
	if hit {
		return "hit"
	}

	return "miss"
}
