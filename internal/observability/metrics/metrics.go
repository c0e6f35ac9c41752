package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salonassist"

func register(reg prometheus.Registerer, cs ...prometheus.Collector) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(cs...)
}

// RecommendationMetrics covers cross-sell recommendation runs.
type RecommendationMetrics struct {
	runsTotal   *prometheus.CounterVec
	itemsTotal  *prometheus.CounterVec
	runDuration prometheus.Histogram
}

func NewRecommendationMetrics(reg prometheus.Registerer) *RecommendationMetrics {
	m := &RecommendationMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "runs_total",
			Help:      "Recommendation runs by outcome",
		}, []string{"status"}),
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "items_total",
			Help:      "Recommended items emitted by type",
		}, []string{"type"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "run_duration_seconds",
			Help:      "Time to load inputs and rank recommendations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	register(reg, m.runsTotal, m.itemsTotal, m.runDuration)
	return m
}

func (m *RecommendationMetrics) ObserveRun(status string, services, products int, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.itemsTotal.WithLabelValues("service").Add(float64(services))
	m.itemsTotal.WithLabelValues("product").Add(float64(products))
	m.runDuration.Observe(seconds)
}

// OutreachMetrics covers suggestion generation and lifecycle transitions.
type OutreachMetrics struct {
	generatedTotal  *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	generateLatency prometheus.Histogram
}

func NewOutreachMetrics(reg prometheus.Registerer) *OutreachMetrics {
	m := &OutreachMetrics{
		generatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outreach",
			Name:      "suggestions_generated_total",
			Help:      "Outreach suggestions created by type",
		}, []string{"type"}),
		transitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outreach",
			Name:      "suggestion_transitions_total",
			Help:      "Suggestion status changes by target status and result",
		}, []string{"status", "result"}),
		generateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outreach",
			Name:      "generate_duration_seconds",
			Help:      "Duration of a generate-and-persist run",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	register(reg, m.generatedTotal, m.transitionTotal, m.generateLatency)
	return m
}

func (m *OutreachMetrics) ObserveGenerated(suggestionType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.generatedTotal.WithLabelValues(suggestionType).Add(float64(n))
}

func (m *OutreachMetrics) ObserveTransition(status, result string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(status, result).Inc()
}

func (m *OutreachMetrics) ObserveGenerateDuration(seconds float64) {
	if m == nil {
		return
	}
	m.generateLatency.Observe(seconds)
}

// HTTPMetrics records request counts and latency per route pattern.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	register(reg, m.requestsTotal, m.requestDuration)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}
