package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by RecordLogin
const (
	LoginOutcomeSuccess          = "success"
	LoginOutcomeBadCredentials   = "bad_credentials"
	LoginOutcomeValidationFailed = "validation_failed"
)

// Token verification outcomes recorded by RecordTokenVerification
const (
	TokenOutcomeValid   = "valid"
	TokenOutcomeInvalid = "invalid"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is safe to use:
// every method no-ops, so wiring metrics stays optional in tests.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LoginsTotal             *prometheus.CounterVec
	SignupsTotal            prometheus.Counter
	TokenVerificationsTotal *prometheus.CounterVec
	RegisteredAccounts      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics on the given registry,
// or on a fresh one when nil
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_http_requests_total",
				Help: "Total HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gatehouse_http_request_duration_seconds",
				Help:    "HTTP request latency by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		SignupsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gatehouse_signups_total",
				Help: "Successful account registrations",
			},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatehouse_token_verifications_total",
				Help: "Session token verifications by outcome",
			},
			[]string{"outcome"},
		),
		RegisteredAccounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatehouse_registered_accounts",
				Help: "Number of accounts in the store, refreshed on a schedule",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginsTotal,
		m.SignupsTotal,
		m.TokenVerificationsTotal,
		m.RegisteredAccounts,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLogin counts a login attempt
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

// RecordSignup counts a successful registration
func (m *Metrics) RecordSignup() {
	if m == nil {
		return
	}
	m.SignupsTotal.Inc()
}

// RecordTokenVerification counts a token verification
func (m *Metrics) RecordTokenVerification(outcome string) {
	if m == nil {
		return
	}
	m.TokenVerificationsTotal.WithLabelValues(outcome).Inc()
}

// SetRegisteredAccounts updates the account gauge
func (m *Metrics) SetRegisteredAccounts(n int) {
	if m == nil {
		return
	}
	m.RegisteredAccounts.Set(float64(n))
}

// HTTPMiddleware records request counts and latencies
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := r.URL.Path
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
