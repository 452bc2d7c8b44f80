package app

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	mdshared "github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/observability"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/viewport"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Layouts        *viewport.Registry
	Metrics        *observability.Metrics
}

// commitWriter persists the session right before the first header write so
// flash messages and new cookies survive redirects.
type commitWriter struct {
	http.ResponseWriter
	commit    func(http.ResponseWriter)
	committed bool
}

func (w *commitWriter) WriteHeader(status int) {
	if w.committed {
		return
	}
	w.committed = true
	w.commit(w.ResponseWriter)
	w.ResponseWriter.WriteHeader(status)
}

func (w *commitWriter) Write(data []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.ResponseWriter.Write(data)
}

func (w *commitWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// SessionMiddleware loads the browser session and commits it with the
// response.
func SessionMiddleware(logger *slog.Logger, sessions *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			if err != nil {
				logger.Error("failed to load session", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			req := r.WithContext(ctx)
			cw := &commitWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) {
				if err := sessions.Commit(context.WithoutCancel(ctx), w, req, sess); err != nil {
					logger.Warn("commit session", slog.Any("error", err))
				}
			}}
			next.ServeHTTP(cw, req)
			cw.WriteHeader(http.StatusOK)
		})
	}
}

// CSRFMiddleware rejects unsafe requests without a valid token. Scripts send
// the token in shared.CSRFHeader; forms post it as shared.CSRFFormField.
func CSRFMiddleware(logger *slog.Logger, csrf *shared.CSRFManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			sess := shared.SessionFromContext(r.Context())
			if sess == nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			token := r.Header.Get(shared.CSRFHeader)
			if token == "" {
				var err error
				token, err = formToken(w, r)
				if err != nil {
					status := http.StatusBadRequest
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						status = http.StatusRequestEntityTooLarge
					}
					logger.Warn("parse form for csrf", slog.String("path", r.URL.Path), slog.Any("error", err))
					http.Error(w, http.StatusText(status), status)
					return
				}
			}
			if err := csrf.VerifyToken(r.Context(), sess, token); err != nil {
				logger.Warn("csrf validation failed", slog.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formToken(w http.ResponseWriter, r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, mdshared.MaxUploadBytes)
		if err := r.ParseMultipartForm(mdshared.MaxUploadBytes); err != nil {
			return "", err
		}
		return r.FormValue(shared.CSRFFormField), nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue(shared.CSRFFormField), nil
}

// MiddlewareStack installs the Synexis middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		FeaturePolicy:         "none",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:",
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.Config.IsProduction(),
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		SessionMiddleware(cfg.Logger, cfg.SessionManager),
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(300, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		CSRFMiddleware(cfg.Logger, cfg.CSRFManager),
	}
	if cfg.Layouts != nil {
		middlewares = append(middlewares, cfg.Layouts.Middleware)
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	return middlewares
}
