package customers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/notify"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
)

var meta = shared.Meta{Entity: audit.EntityCustomer, Singular: "customer", Plural: "customers", BasePath: "/customers"}

// Handler serves the customer pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	sources shared.Sources[Customer]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		sources: shared.Sources[Customer]{
			Meta:     meta,
			List:     service.List,
			Get:      service.Get,
			Side:     service.Options,
			Activity: activity,
			Fields:   Fields,
		},
	}
}

type formView struct {
	Meta      shared.Meta
	Editing   bool
	ID        int64
	Documents []Document
	Input     Input
	Errors    internalShared.FieldErrors
	Prefixes  []string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/customers/list.html", "Customers", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Customer", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get customer failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Customer", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/customers/detail.html", detail.Record.FullName(), detail, http.StatusOK)
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "New customer", err)
		return
	}
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in}, err, "Failed to create customer. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Customer \""+in.CustomerFirstName+"\" successfully created")
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit customer", err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get customer failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit customer", err)
		return
	}
	in := Input{
		CustomerPrefix:      c.CustomerPrefix,
		CustomerFirstName:   c.CustomerFirstName,
		CustomerLastName:    c.CustomerLastName,
		CustomerEmail:       c.CustomerEmail,
		CustomerPhoneNumber: c.CustomerPhoneNumber,
		City:                c.City,
		ZipCode:             c.ZipCode,
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, Documents: c.Documents(), Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit customer", err)
		return
	}
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "Edit customer", err)
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in}, err, "Failed to update customer. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess,
		"Customer \""+in.CustomerFirstName+"\" successfully updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete customer failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting customer: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "Customer"
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Customer \""+name+"\" successfully deleted")
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save customer failed", slog.Any("error", err))
	}
	h.pages.Inbox(r).Error(message)
	form.Errors = fields
	h.renderForm(w, r, form, view.StatusFor(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form formView, status int) {
	form.Meta = meta
	form.Prefixes = Prefixes
	if form.Errors == nil {
		form.Errors = internalShared.FieldErrors{}
	}
	title := "New customer"
	if form.Editing {
		title = "Edit customer"
	}
	h.pages.Render(w, r, "pages/customers/form.html", title, form, status)
}

func parseInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	if err := shared.ParseForm(w, r); err != nil {
		return Input{}, err
	}
	in := Input{
		CustomerPrefix:      shared.Raw(r, "customerPrefix"),
		CustomerFirstName:   shared.Text(r, "customerFirstName"),
		CustomerLastName:    shared.Text(r, "customerLastName"),
		CustomerEmail:       shared.Raw(r, "customerEmail"),
		CustomerPhoneNumber: shared.Text(r, "customerPhoneNumber"),
		City:                shared.Text(r, "city"),
		ZipCode:             shared.Text(r, "zipCode"),
	}
	var err error
	if in.BRC, err = shared.Upload(r, FieldBRC); err != nil {
		return Input{}, err
	}
	if in.VAT, err = shared.Upload(r, FieldVAT); err != nil {
		return Input{}, err
	}
	if in.SVAT, err = shared.Upload(r, FieldSVAT); err != nil {
		return Input{}, err
	}
	return in, nil
}
