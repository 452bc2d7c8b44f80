package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/synexis/synexis-admin/internal/audit/http"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/observability"
	"github.com/synexis/synexis-admin/internal/platform/httpx"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/viewport"
	"github.com/synexis/synexis-admin/jobs"
	"github.com/synexis/synexis-admin/web"
)

// Mounter is implemented by every page handler.
type Mounter interface {
	MountRoutes(r chi.Router)
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Layouts        *viewport.Registry
	Notifications  *notify.Center
	Forms          *cascade.Registry
	AuditHandler   *audithttp.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
	Pages          []Mounter
}

// NewRouter constructs the chi.Router with Synexis defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.With(chimw.RealIP).Handle("/static/*", staticCacheHandler(fileServer))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
		if params.Forms != nil {
			params.Metrics.ObserveGauge("synexis_cascade_forms", "Live dependent dropdown forms.", func() float64 {
				return float64(params.Forms.Len())
			})
		}
		if params.Layouts != nil {
			params.Metrics.ObserveGauge("synexis_layout_sessions", "Sessions with a tracked layout.", func() float64 {
				return float64(params.Layouts.Len())
			})
		}
		if params.Notifications != nil {
			params.Metrics.ObserveGauge("synexis_notification_inboxes", "Sessions with pending notifications.", func() float64 {
				return float64(params.Notifications.Audiences())
			})
		}
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Layouts:        params.Layouts,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		if params.Layouts != nil {
			r.Route("/ui", viewport.NewHandler(params.Layouts).MountRoutes)
		}
		if params.Notifications != nil {
			notify.NewHandler(params.Notifications).MountRoutes(r)
		}
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
		for _, page := range params.Pages {
			if page != nil {
				page.MountRoutes(r)
			}
		}
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
