// Package metrics holds the prometheus collectors of the accounts service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the service collectors, each curried with the service label.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds prometheus.ObserverVec
	AuthRegistrationsTotal     *prometheus.CounterVec
	AuthLoginsTotal            *prometheus.CounterVec
	TokensIssuedTotal          *prometheus.CounterVec
	NotificationsTotal         *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with a fresh registry that
// also carries the Go and process collectors.
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(serviceName, reg, reg)
}

// NewWithRegistry registers the collectors with reg; gatherer backs Handler.
func NewWithRegistry(serviceName string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	registrations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"service", "result"},
	)
	logins := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)
	tokens := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of tokens issued or refreshed.",
		},
		[]string{"service", "flow", "result"},
	)
	notifications := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_notifications_total",
			Help: "Total number of activation and reset code deliveries.",
		},
		[]string{"service", "kind", "result"},
	)

	reg.MustRegister(httpRequests, httpDuration, registrations, logins, tokens, notifications)

	svc := prometheus.Labels{"service": serviceName}
	return &Metrics{
		HTTPRequestsTotal:          httpRequests.MustCurryWith(svc),
		HTTPRequestDurationSeconds: httpDuration.MustCurryWith(svc),
		AuthRegistrationsTotal:     registrations.MustCurryWith(svc),
		AuthLoginsTotal:            logins.MustCurryWith(svc),
		TokensIssuedTotal:          tokens.MustCurryWith(svc),
		NotificationsTotal:         notifications.MustCurryWith(svc),
		gatherer:                   gatherer,
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.AuthRegistrationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.AuthLoginsTotal.WithLabelValues(result).Inc()
}

// TokenIssued counts token issuance; flow is "login" or "refresh".
func (m *Metrics) TokenIssued(flow, result string) {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.WithLabelValues(flow, result).Inc()
}

// Notification counts code deliveries; kind is "activation" or "password_reset".
func (m *Metrics) Notification(kind, result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind, result).Inc()
}
