package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/backend"
	jobmetrics "github.com/synexis/synexis-admin/internal/jobs"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesSharedRegistry(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("dropdown:warmup").End(nil)
	_ = backend.NewMetrics(metrics.Registerer())
	metrics.ObserveGauge("synexis_cascade_forms", "Live cascade forms.", func() float64 { return 3 })

	body := scrape(t, metrics)
	require.Contains(t, body, `synexis_jobs_total{job="dropdown:warmup",status="success"} 1`)
	require.Contains(t, body, "synexis_cascade_forms 3")
	require.Contains(t, body, "go_goroutines")
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `synexis_http_requests_total{code="418",route="/test"} 1`)
	require.Contains(t, body, `synexis_http_request_duration_seconds_bucket{route="/test"`)
}

func TestNilMetricsIsInert(t *testing.T) {
	var metrics *Metrics
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, metrics.Middleware(next))
	metrics.ObserveGauge("x", "y", func() float64 { return 0 })

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
