package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/accounts/internal/auth/metrics"
)

func TestCountersCarryServiceLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("accounts", reg, reg)

	m.Registration(metrics.ResultSuccess)
	m.Login(metrics.ResultFailure)
	m.Login(metrics.ResultFailure)
	m.TokenIssued("login", metrics.ResultSuccess)
	m.Notification("activation", metrics.ResultFailure)

	require.Equal(t, 1.0, testutil.ToFloat64(m.AuthRegistrationsTotal.WithLabelValues(metrics.ResultSuccess)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.AuthLoginsTotal.WithLabelValues(metrics.ResultFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokensIssuedTotal.WithLabelValues("login", metrics.ResultSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("activation", metrics.ResultFailure)))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			found := false
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "service" && lp.GetValue() == "accounts" {
					found = true
				}
			}
			require.True(t, found, "metric %s lacks service label", f.GetName())
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Registration(metrics.ResultSuccess)
	m.Login(metrics.ResultSuccess)
	m.TokenIssued("refresh", metrics.ResultSuccess)
	m.Notification("activation", metrics.ResultSuccess)

	h := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHTTPMiddlewareUsesPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("accounts", reg, reg)

	mux := http.NewServeMux()
	mux.Handle("DELETE /v1/admin/users/{id}", m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.Handle("GET /metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/admin/users/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "DELETE /v1/admin/users/{id}", "204"),
	))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{method="DELETE",path="DELETE /v1/admin/users/{id}",service="accounts",status="204"} 2`)
}
