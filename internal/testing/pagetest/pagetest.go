// Package pagetest wires handlers to a fake backend, an in-memory Redis and a
// real template engine for handler tests.
package pagetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/platform/cache"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
	"github.com/synexis/synexis-admin/internal/viewport"
)

// APIPrefix is the path the fake backend serves under.
const APIPrefix = "/api/synexis"

// Harness holds the collaborators shared by handler tests.
type Harness struct {
	t         *testing.T
	Logger    *slog.Logger
	Redis     *miniredis.Miniredis
	Sessions  *shared.SessionManager
	Center    *notify.Center
	Client    *backend.Client
	Cache     *cache.Versioned
	Audit     *audit.Service
	Responder *view.Responder
	Router    chi.Router
	Layouts   *viewport.Registry

	mu      sync.Mutex
	mux     *http.ServeMux
	cookies []*http.Cookie
	calls   []string
}

// New builds a harness with an empty fake backend.
func New(t *testing.T) *Harness {
	t.Helper()
	h := &Harness{t: t, mux: http.NewServeMux()}
	h.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	h.Redis = miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: h.Redis.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.calls = append(h.calls, r.Method+" "+strings.TrimPrefix(r.URL.Path, APIPrefix))
		h.mu.Unlock()
		h.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	client, err := backend.New(backend.Config{
		BaseURL: api.URL + APIPrefix,
		Timeout: 5 * time.Second,
		Logger:  h.Logger,
		Metrics: backend.NewMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	h.Client = client

	engine, err := view.NewEngine()
	require.NoError(t, err)

	h.Sessions = shared.NewSessionManager(rdb, "test_session", "secret", time.Hour, false)
	h.Center = notify.NewCenter()
	t.Cleanup(h.Center.Close)
	h.Cache = cache.NewVersioned(rdb, time.Minute)
	h.Audit = audit.NewService(audit.NewRepository(client))
	h.Responder = view.NewResponder(engine, shared.NewCSRFManager("csrf"), h.Center, h.Logger)
	h.Layouts = viewport.NewRegistry(viewport.DefaultBreakpoint, time.Hour)

	h.Router = chi.NewRouter()
	h.Router.Use(h.session, h.Layouts.Middleware)
	return h
}

// Handle registers a fake backend route. pattern is a ServeMux pattern
// relative to the API prefix, such as "GET /brand/{id}".
func (h *Harness) Handle(pattern string, fn http.HandlerFunc) {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		path, method = method, ""
	}
	full := APIPrefix + path
	if method != "" {
		full = method + " " + full
	}
	h.mux.HandleFunc(full, fn)
}

// JSON registers a fake backend route answering with a fixed body.
func (h *Harness) JSON(pattern, body string) {
	h.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
}

// Status registers a fake backend route answering with a bare status.
func (h *Harness) Status(pattern string, status int) {
	h.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// Calls returns the backend requests seen so far as "METHOD /path".
func (h *Harness) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// Get performs a GET against the router.
func (h *Harness) Get(path string) *httptest.ResponseRecorder {
	return h.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostForm submits an urlencoded form against the router.
func (h *Harness) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.Do(req)
}

// File is an upload attached by PostMultipart.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// PostMultipart submits a multipart form with optional files.
func (h *Harness) PostMultipart(path string, form url.Values, files ...File) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, v := range values {
			require.NoError(h.t, mw.WriteField(key, v))
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		header.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(header)
		require.NoError(h.t, err)
		_, err = part.Write(f.Data)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.Do(req)
}

// Do serves req, carrying the session cookie between calls.
func (h *Harness) Do(req *http.Request) *httptest.ResponseRecorder {
	h.mu.Lock()
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	h.mu.Unlock()
	rec := httptest.NewRecorder()
	h.Router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		h.mu.Lock()
		h.cookies = cookies
		h.mu.Unlock()
	}
	return rec
}

// SessionID returns the id of the harness browser session.
func (h *Harness) SessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.cookies {
		if c.Name == h.Sessions.CookieName() {
			return c.Value
		}
	}
	return ""
}

// Notifications returns the pending toasts of the harness session.
func (h *Harness) Notifications() []notify.Notification {
	return h.Center.Inbox(h.SessionID()).Pending()
}

// Flashes loads the session and returns its queued flash messages.
func (h *Harness) Flashes() []shared.FlashMessage {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.mu.Lock()
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	h.mu.Unlock()
	sess, err := h.Sessions.Load(context.Background(), req)
	require.NoError(h.t, err)
	return sess.DrainFlashes()
}

func (h *Harness) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Sessions.Load(r.Context(), r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ctx := shared.ContextWithSession(r.Context(), sess)
		cw := &commitWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) {
			_ = h.Sessions.Commit(ctx, w, r, sess)
		}}
		next.ServeHTTP(cw, r.WithContext(ctx))
		cw.WriteHeader(http.StatusOK)
	})
}

type commitWriter struct {
	http.ResponseWriter
	commit    func(http.ResponseWriter)
	committed bool
}

func (w *commitWriter) WriteHeader(status int) {
	if !w.committed {
		w.committed = true
		w.commit(w.ResponseWriter)
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.ResponseWriter.Write(b)
}
