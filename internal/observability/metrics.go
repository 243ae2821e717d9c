package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// transfer recommendation service.
type Metrics struct {
	EvaluationsTotal      prometheus.Counter
	RecommendationsTotal  *prometheus.CounterVec // labels: outcome={recommended,none_eligible,error}
	CandidateRejections   *prometheus.CounterVec // labels: stage={exclusion,capacity,transport}
	DecisionDuration      prometheus.Histogram
	CensusUpdatesTotal    *prometheus.CounterVec // labels: outcome={applied,rejected}
	RuleLookupMissesTotal prometheus.Counter
	RuleCampusesLoaded    prometheus.Gauge

	// Road routing metrics.
	RoutingRequests *prometheus.CounterVec // labels: outcome={success,error}
	RouteCache      *prometheus.CounterVec // labels: result={hit,miss}
	RoutingDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "evaluations_total",
			Help:      "Total transfer requests evaluated.",
		}),
		RecommendationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "recommendations_total",
			Help:      "Evaluation results by outcome.",
		}, []string{"outcome"}),
		CandidateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "candidate_rejections_total",
			Help:      "Candidate campuses rejected, by pipeline stage.",
		}, []string{"stage"}),
		DecisionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transfer_center",
			Name:      "decision_duration_seconds",
			Help:      "Duration of a complete recommendation decision.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CensusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "census_updates_total",
			Help:      "Bed census feed messages by outcome.",
		}, []string{"outcome"}),
		RuleLookupMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "rule_lookup_misses_total",
			Help:      "Campuses evaluated without a matching exclusion rule set.",
		}),
		RuleCampusesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "transfer_center",
			Name:      "rule_campuses_loaded",
			Help:      "Number of campuses in the loaded exclusion rule set.",
		}),
		RoutingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "routing_requests_total",
			Help:      "OSRM routing requests by outcome.",
		}, []string{"outcome"}),
		RouteCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transfer_center",
			Name:      "route_cache_total",
			Help:      "Route cache lookups by result.",
		}, []string{"result"}),
		RoutingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transfer_center",
			Name:      "routing_duration_seconds",
			Help:      "OSRM API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.EvaluationsTotal,
		m.RecommendationsTotal,
		m.CandidateRejections,
		m.DecisionDuration,
		m.CensusUpdatesTotal,
		m.RuleLookupMissesTotal,
		m.RuleCampusesLoaded,
		m.RoutingRequests,
		m.RouteCache,
		m.RoutingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EvaluationsTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "transfer_center", Name: "evaluations_total"}),
		RecommendationsTotal:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transfer_center", Name: "recommendations_total"}, []string{"outcome"}),
		CandidateRejections:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transfer_center", Name: "candidate_rejections_total"}, []string{"stage"}),
		DecisionDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "transfer_center", Name: "decision_duration_seconds"}),
		CensusUpdatesTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transfer_center", Name: "census_updates_total"}, []string{"outcome"}),
		RuleLookupMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "transfer_center", Name: "rule_lookup_misses_total"}),
		RuleCampusesLoaded:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "transfer_center", Name: "rule_campuses_loaded"}),
		RoutingRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transfer_center", Name: "routing_requests_total"}, []string{"outcome"}),
		RouteCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transfer_center", Name: "route_cache_total"}, []string{"result"}),
		RoutingDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "transfer_center", Name: "routing_duration_seconds"}),
	}
}
