package viewport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/platform/httpx"
	"github.com/synexis/synexis-admin/internal/shared"
)

// WidthCookie is written by the layout script on resize.
const WidthCookie = "vw"

type layoutContextKey struct{}

// ContextWithLayout stores the layout of the current session.
func ContextWithLayout(ctx context.Context, l *Layout) context.Context {
	return context.WithValue(ctx, layoutContextKey{}, l)
}

// LayoutFromContext returns the layout stored by Middleware, or nil.
func LayoutFromContext(ctx context.Context) *Layout {
	l, _ := ctx.Value(layoutContextKey{}).(*Layout)
	return l
}

// ViewFromContext returns the layout snapshot for templates. Requests without
// a layout render the wide layout.
func ViewFromContext(ctx context.Context) View {
	if l := LayoutFromContext(ctx); l != nil {
		return l.View()
	}
	return View{SidebarOpen: true}
}

// RequestWidth extracts the viewport width from client hints or the width
// cookie. It returns zero when none is present.
func RequestWidth(r *http.Request) int {
	for _, header := range []string{"Sec-CH-Viewport-Width", "Viewport-Width"} {
		if w := parseWidth(r.Header.Get(header)); w > 0 {
			return w
		}
	}
	if c, err := r.Cookie(WidthCookie); err == nil {
		return parseWidth(c.Value)
	}
	return 0
}

func parseWidth(raw string) int {
	w, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// Middleware attaches the session layout to the request and feeds it the
// reported width. It must run after the session middleware.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sess := shared.SessionFromContext(req.Context())
		if sess == nil {
			next.ServeHTTP(w, req)
			return
		}
		layout := r.Layout(sess.ID)
		if width := RequestWidth(req); width > 0 {
			layout.Observer().SetWidth(width)
		}
		w.Header().Add("Accept-CH", "Sec-CH-Viewport-Width")
		next.ServeHTTP(w, req.WithContext(ContextWithLayout(req.Context(), layout)))
	})
}

// Handler exposes the layout endpoints.
type Handler struct {
	registry *Registry
}

// NewHandler constructs the layout endpoints.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// MountRoutes attaches the layout routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/viewport", h.reportWidth)
	r.Post("/sidebar", h.sidebar)
}

func (h *Handler) layout(r *http.Request) *Layout {
	if l := LayoutFromContext(r.Context()); l != nil {
		return l
	}
	if id := shared.SessionID(r.Context()); id != "" {
		return h.registry.Layout(id)
	}
	return nil
}

func (h *Handler) reportWidth(w http.ResponseWriter, r *http.Request) {
	layout := h.layout(r)
	if layout == nil {
		httpx.Problem(w, http.StatusBadRequest, "No Session", "")
		return
	}
	width := parseWidth(r.FormValue("width"))
	if width == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "width must be a positive integer")
		return
	}
	layout.Observer().SetWidth(width)
	httpx.JSON(w, http.StatusOK, layout.View())
}

func (h *Handler) sidebar(w http.ResponseWriter, r *http.Request) {
	layout := h.layout(r)
	if layout == nil {
		httpx.Problem(w, http.StatusBadRequest, "No Session", "")
		return
	}
	switch r.FormValue("open") {
	case "true", "1":
		layout.SetSidebar(true)
	case "false", "0":
		layout.SetSidebar(false)
	default:
		layout.ToggleSidebar()
	}
	httpx.JSON(w, http.StatusOK, layout.View())
}
