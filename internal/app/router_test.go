package app

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/observability"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/viewport"
)

// echoPage hands out the CSRF token on GET and echoes the posted name.
type echoPage struct {
	csrf *shared.CSRFManager
}

func (p echoPage) MountRoutes(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		token, _ := p.csrf.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
		_, _ = io.WriteString(w, token)
	})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.FormValue("name"))
	})
}

type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return rec
}

func (b *browser) token() string {
	rec := b.do(httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(b.t, http.StatusOK, rec.Code)
	require.NotEmpty(b.t, rec.Body.String())
	return rec.Body.String()
}

func newTestRouter(t *testing.T) (*browser, *observability.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	csrf := newCSRF()
	forms := cascade.NewRegistry(time.Minute)
	t.Cleanup(forms.Close)
	center := notify.NewCenter()
	t.Cleanup(center.Close)
	metrics := observability.NewMetrics()

	handler := NewRouter(RouterParams{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:         &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		SessionManager: shared.NewSessionManager(rdb, "synexis_session", "secret", time.Hour, false),
		CSRFManager:    csrf,
		Layouts:        viewport.NewRegistry(viewport.DefaultBreakpoint, time.Hour),
		Notifications:  center,
		Forms:          forms,
		Metrics:        metrics,
		Pages:          []Mounter{echoPage{csrf: csrf}},
	})
	return &browser{t: t, handler: handler}, metrics
}

func newCSRF() *shared.CSRFManager { return shared.NewCSRFManager("csrf-secret") }

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHealthzAndStatic(t *testing.T) {
	b, _ := newTestRouter(t)

	rec := b.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = b.do(httptest.NewRequest(http.MethodGet, "/static/js/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	require.Contains(t, rec.Body.String(), "data-cascade-form")
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	b, _ := newTestRouter(t)
	b.token()

	rec := b.do(postForm("/echo", url.Values{"name": {"Bosch"}}))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = b.do(postForm("/echo", url.Values{"name": {"Bosch"}, shared.CSRFFormField: {"forged"}}))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFAcceptsFormFieldAndHeader(t *testing.T) {
	b, _ := newTestRouter(t)
	token := b.token()

	rec := b.do(postForm("/echo", url.Values{"name": {"Bosch"}, shared.CSRFFormField: {token}}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Bosch", rec.Body.String())

	req := postForm("/echo", url.Values{"name": {"Makita"}})
	req.Header.Set(shared.CSRFHeader, token)
	rec = b.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Makita", rec.Body.String())
}

func TestCSRFReadsMultipartToken(t *testing.T) {
	b, _ := newTestRouter(t)
	token := b.token()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(shared.CSRFFormField, token))
	require.NoError(t, mw.WriteField("name", "Hilti"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := b.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hilti", rec.Body.String())
}

func TestLayoutEndpointsAreMounted(t *testing.T) {
	b, _ := newTestRouter(t)
	token := b.token()

	req := postForm("/ui/viewport", url.Values{"width": {"480"}})
	req.Header.Set(shared.CSRFHeader, token)
	rec := b.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"width":480,"compact":true,"sidebarOpen":false}`, rec.Body.String())
}

func TestMetricsExposeGauges(t *testing.T) {
	b, _ := newTestRouter(t)
	b.token()

	rec := b.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "synexis_cascade_forms 0")
	require.Contains(t, body, "synexis_layout_sessions 1")
	require.Contains(t, body, `synexis_http_requests_total{code="200",route="/echo"} 1`)
}
