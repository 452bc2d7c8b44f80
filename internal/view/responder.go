package view

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/viewport"
)

// ErrorPage is the template rendered for failed page loads.
const ErrorPage = "pages/error.html"

// Responder renders pages with the per-request chrome (CSRF token, toasts,
// layout) that every handler needs.
type Responder struct {
	engine *Engine
	csrf   *shared.CSRFManager
	center *notify.Center
	logger *slog.Logger
}

// NewResponder wires the page renderer.
func NewResponder(engine *Engine, csrf *shared.CSRFManager, center *notify.Center, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{engine: engine, csrf: csrf, center: center, logger: logger}
}

// Inbox returns the notification inbox of the request's session. The result is
// inert when the request carries no session.
func (rs *Responder) Inbox(r *http.Request) *notify.Inbox {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || rs.center == nil {
		return nil
	}
	return rs.center.Inbox(sess.ID)
}

// Render writes a page. Flash messages queued before a redirect are moved into
// the session inbox first so they show up alongside live notifications.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, template, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	var csrfToken string
	if sess != nil && rs.csrf != nil {
		csrfToken, _ = rs.csrf.EnsureToken(r.Context(), sess)
	}
	inbox := rs.Inbox(r)
	if sess != nil {
		for _, flash := range sess.DrainFlashes() {
			inbox.Push(flash.Message, notify.Kind(flash.Kind), 0)
		}
	}
	viewData := TemplateData{
		Title:         title,
		CSRFToken:     csrfToken,
		Notifications: inbox.Pending(),
		CurrentPath:   r.URL.Path,
		Layout:        viewport.ViewFromContext(r.Context()),
		Data:          data,
	}
	if err := rs.engine.RenderStatus(w, template, viewData, status); err != nil {
		rs.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Redirect queues a flash and redirects with 303.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, location string, kind notify.Kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: string(kind), Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// Fail renders the error page for err with a matching status and an error
// notification.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := StatusFor(err)
	message := shared.UserSafeMessage(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("page load failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	rs.Inbox(r).Error(message)
	rs.Render(w, r, ErrorPage, title, map[string]any{"Status": status, "Message": message}, status)
}

// StatusFor maps an error onto the HTTP status of the page.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrBadForm):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
