package units

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/notify"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
)

var meta = shared.Meta{Entity: audit.EntityUnit, Singular: "unit", Plural: "units", BasePath: "/units"}

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	sources shared.Sources[Unit]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		sources: shared.Sources[Unit]{
			Meta:     meta,
			List:     service.List,
			Get:      service.Get,
			Side:     service.SideOptions,
			Activity: activity,
			Fields:   Fields,
		},
	}
}

// MountRoutes registers unit pages under /units.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(meta.BasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/new", h.Form)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/edit", h.EditForm)
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/delete", h.Delete)
	})
}

type formView struct {
	Meta    shared.Meta
	Editing bool
	ID      int64
	Input   Input
	Errors  internalShared.FieldErrors
	Bases   []cascade.Option
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/units/list.html", "Units", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Unit", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get unit failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Unit", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/units/detail.html", detail.Record.UnitName, detail, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := shared.ParseForm(w, r); err != nil {
		h.pages.Fail(w, r, "New unit", err)
		return
	}
	in := parseInput(r)
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in}, err, "Failed to create unit. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Unit \""+in.UnitName+"\" successfully created")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit unit", err)
		return
	}
	unit, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get unit failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit unit", err)
		return
	}
	in := Input{
		UnitName:             unit.UnitName,
		UnitShortName:        unit.UnitShortName,
		UnitAllowDecimal:     unit.UnitAllowDecimal,
		BaseUnitID:           unit.BaseUnitID,
		UnitConversionFactor: unit.UnitConversionFactor,
		IsMultiple:           unit.IsMultiple(),
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit unit", err)
		return
	}
	if err := shared.ParseForm(w, r); err != nil {
		h.pages.Fail(w, r, "Edit unit", err)
		return
	}
	in := parseInput(r)
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in}, err, "Failed to update unit. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess, "Unit \""+in.UnitName+"\" successfully updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete unit failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting unit: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "#" + strconv.FormatInt(id, 10)
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Unit \""+name+"\" successfully deleted")
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save unit failed", slog.Any("error", err))
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
	bases, err := h.service.BaseOptions(r.Context())
	if err != nil {
		h.logger.Error("load base units failed", slog.Any("error", err))
		h.pages.Inbox(r).Error("Failed to load base units. Please try again.")
	}
	form.Bases = bases
	title := "New unit"
	if form.Editing {
		title = "Edit unit"
	}
	h.pages.Render(w, r, "pages/units/form.html", title, form, status)
}

func parseInput(r *http.Request) Input {
	return Input{
		UnitName:             shared.Text(r, "unitName"),
		UnitShortName:        shared.Text(r, "unitShortName"),
		UnitAllowDecimal:     shared.Bool(r, "unitAllowDecimal"),
		BaseUnitID:           shared.Int(r, "baseUnitId"),
		UnitConversionFactor: shared.Float(r, "unitConversionFactor"),
		IsMultiple:           shared.Bool(r, "isMultiple"),
	}
}
