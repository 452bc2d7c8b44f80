package customers

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers customer pages under /customers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(meta.BasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/new", h.ShowForm)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/edit", h.ShowEditForm)
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/delete", h.Delete)
	})
}
