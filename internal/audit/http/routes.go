package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/synexis/synexis-admin/internal/shared"
)

const rateLimit = 10
const rateWindow = time.Minute

// MountRoutes registers the activity log endpoints. Exports are rate limited
// per session.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(rateLimit, rateWindow,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Get("/activity/{entity}", h.handleRecent)
	r.Get("/activity/{entity}/{id}", h.handleTimeline)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/activity/{entity}/{id}/export.csv", h.handleExport)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return "session:" + sess.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
