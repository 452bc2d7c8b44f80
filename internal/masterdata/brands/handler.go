package brands

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/notify"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
)

var meta = shared.Meta{Entity: audit.EntityBrand, Singular: "brand", Plural: "brands", BasePath: "/brands"}

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	sources shared.Sources[Brand]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		sources: shared.Sources[Brand]{
			Meta:     meta,
			List:     service.List,
			Get:      service.Get,
			Side:     service.Options,
			Activity: activity,
			Fields:   Fields,
		},
	}
}

// MountRoutes registers brand pages under /brands.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(meta.BasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/new", h.Form)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/image", h.Image)
		r.Get("/{id}/edit", h.EditForm)
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/delete", h.Delete)
	})
}

type formView struct {
	Meta     shared.Meta
	Editing  bool
	ID       int64
	HasImage bool
	Input    Input
	Errors   internalShared.FieldErrors
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/brands/list.html", "Brands", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Brand", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get brand failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Brand", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/brands/detail.html", detail.Record.BrandName, detail, http.StatusOK)
}

func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		shared.ServeImage(w, backend.Blob{}, err)
		return
	}
	blob, err := h.service.Image(r.Context(), id)
	shared.ServeImage(w, blob, err)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "New brand", err)
		return
	}
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in}, err, "Failed to create brand. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Brand \""+in.BrandName+"\" successfully created")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit brand", err)
		return
	}
	brand, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get brand failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit brand", err)
		return
	}
	in := Input{
		BrandName:        brand.BrandName,
		BrandCountry:     brand.BrandCountry,
		BrandWebsite:     brand.BrandWebsite,
		BrandDescription: brand.BrandDescription,
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, HasImage: brand.HasImage(), Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit brand", err)
		return
	}
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "Edit brand", err)
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in}, err, "Failed to update brand. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess, "Brand \""+in.BrandName+"\" successfully updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete brand failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting brand: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "#" + strconv.FormatInt(id, 10)
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Brand \""+name+"\" successfully deleted")
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save brand failed", slog.Any("error", err))
	}
	h.pages.Inbox(r).Error(message)
	form.Errors = fields
	h.renderForm(w, r, form, view.StatusFor(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form formView, status int) {
	form.Meta = meta
	if form.Errors == nil {
		form.Errors = internalShared.FieldErrors{}
	}
	title := "New brand"
	if form.Editing {
		title = "Edit brand"
	}
	h.pages.Render(w, r, "pages/brands/form.html", title, form, status)
}

func parseInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	if err := shared.ParseForm(w, r); err != nil {
		return Input{}, err
	}
	image, err := shared.Upload(r, "brandImage")
	if err != nil {
		return Input{}, err
	}
	return Input{
		BrandName:        shared.Text(r, "brandName"),
		BrandCountry:     shared.Text(r, "brandCountry"),
		BrandWebsite:     shared.Raw(r, "brandWebsite"),
		BrandDescription: shared.Text(r, "brandDescription"),
		Image:            image,
	}, nil
}
