package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the favorites service. Methods are
// nil-safe so handlers can run without metrics in tests.
type Metrics struct {
	// Admission decisions by outcome and reason
	Admissions *prometheus.CounterVec

	// Time spent resolving snapshots and running the gatekeeper
	AdmitLatency prometheus.Histogram

	// Favorite state changes by resulting status
	FavoriteToggles *prometheus.CounterVec

	// Cookie consent answers
	ConsentAnswers *prometheus.CounterVec

	// Request latency by route pattern
	RequestLatency *prometheus.HistogramVec

	// Requests refused by the rate limiter, and checks served by the fallback
	RateLimited      prometheus.Counter
	RateLimitDegrade prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "favorites_admissions_total",
			Help: "Admission decisions by outcome and reason",
		}, []string{"outcome", "reason"}),

		AdmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "favorites_admit_duration_seconds",
			Help:    "Duration of request admission including snapshot reads",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),

		FavoriteToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "favorites_toggles_total",
			Help: "Favorite state changes by resulting status",
		}, []string{"status"}),

		ConsentAnswers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "favorites_cookie_consent_total",
			Help: "Cookie consent answers by choice",
		}, []string{"accepted"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "favorites_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "favorites_rate_limited_total",
			Help: "Requests refused by the rate limiter",
		}),

		RateLimitDegrade: factory.NewCounter(prometheus.CounterOpts{
			Name: "favorites_rate_limit_degraded_total",
			Help: "Rate limit checks served by the in-memory fallback",
		}),
	}
}

// IncrementAdmission records one admission decision.
func (m *Metrics) IncrementAdmission(outcome, reason string) {
	if m != nil {
		m.Admissions.WithLabelValues(outcome, reason).Inc()
	}
}

// ObserveAdmitLatency records how long admission took.
func (m *Metrics) ObserveAdmitLatency(d time.Duration) {
	if m != nil {
		m.AdmitLatency.Observe(d.Seconds())
	}
}

// IncrementToggle records a favorite status change.
func (m *Metrics) IncrementToggle(status string) {
	if m != nil {
		m.FavoriteToggles.WithLabelValues(status).Inc()
	}
}

// IncrementConsent records a cookie consent answer.
func (m *Metrics) IncrementConsent(accepted bool) {
	if m != nil {
		label := "false"
		if accepted {
			label = "true"
		}
		m.ConsentAnswers.WithLabelValues(label).Inc()
	}
}

// ObserveRequestLatency records the latency of one HTTP request.
func (m *Metrics) ObserveRequestLatency(route, method string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method).Observe(d.Seconds())
	}
}

// IncrementRateLimited records a refused request.
func (m *Metrics) IncrementRateLimited() {
	if m != nil {
		m.RateLimited.Inc()
	}
}

// IncrementRateLimitDegraded records a check served by the fallback store.
func (m *Metrics) IncrementRateLimitDegraded() {
	if m != nil {
		m.RateLimitDegrade.Inc()
	}
}
