package dashboard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/view"
)

// Handler serves the home page.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers the dashboard at the site root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Home)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	overview, results := h.service.Load(r.Context())
	inbox := h.pages.Inbox(r)
	activityFailed := false
	for _, name := range results.Failed() {
		h.logger.Error("load dashboard section", slog.String("section", name), slog.Any("error", results.Err(name)))
		if strings.HasPrefix(name, "activity:") {
			activityFailed = true
		}
	}
	for _, c := range overview.Counts {
		if c.Failed() {
			inbox.Error("Failed to load " + strings.ToLower(c.Label) + ". Please try again.")
		}
	}
	if activityFailed {
		inbox.Error("Failed to load recent activities.")
	}
	h.pages.Render(w, r, "pages/dashboard.html", "Dashboard", overview, http.StatusOK)
}
