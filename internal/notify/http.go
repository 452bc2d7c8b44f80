package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/platform/httpx"
	"github.com/synexis/synexis-admin/internal/shared"
)

// Handler exposes the session inbox to the toast script.
type Handler struct {
	center *Center
}

// NewHandler builds the notification endpoints.
func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

// MountRoutes registers the notification endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/notifications", h.pending)
	r.Post("/notifications/{id}/dismiss", h.dismiss)
}

func (h *Handler) inbox(r *http.Request) *Inbox {
	id := shared.SessionID(r.Context())
	if id == "" {
		return nil
	}
	return h.center.Inbox(id)
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	items := h.inbox(r).Pending()
	if items == nil {
		items = []Notification{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.inbox(r).Dismiss(chi.URLParam(r, "id")) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
