package inquiries

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/resource"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
)

var meta = shared.Meta{Entity: audit.EntityInquiry, Singular: "inquiry", Plural: "inquiries", BasePath: "/inquiries"}

const (
	sectionCustomers = "customers"
	sectionEmployees = "employees"
)

// Handler serves the inquiry pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	sources shared.Sources[Inquiry]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		sources: shared.Sources[Inquiry]{
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
	Meta         shared.Meta
	Editing      bool
	ID           int64
	Input        Input
	Errors       internalShared.FieldErrors
	Customers    []cascade.Option
	Employees    []cascade.Option
	Statuses     []string
	InquiryTypes []string
	ProjectTypes []string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/inquiries/list.html", "Inquiries", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Inquiry", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get inquiry failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Inquiry", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/inquiries/detail.html", detail.Record.ProjectName, detail, http.StatusOK)
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formView{Input: Input{InquiryStatus: "PENDING"}}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "New inquiry", err)
		return
	}
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in}, err, "Failed to create inquiry. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Inquiry \""+in.ProjectName+"\" successfully created")
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit inquiry", err)
		return
	}
	i, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get inquiry failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit inquiry", err)
		return
	}
	in := Input{
		QuotationNumber:   i.QuotationNumber,
		ProjectName:       i.ProjectName,
		ProjectType:       i.ProjectType,
		InquiryType:       i.InquiryType,
		InquiryStatus:     i.Status(),
		CustomerID:        i.CustomerID,
		SalesPersonID:     i.SalesPersonID,
		EstimatorID:       i.EstimatorID,
		ProjectReturnDate: i.ProjectReturnDate,
		Notes:             i.Notes,
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit inquiry", err)
		return
	}
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "Edit inquiry", err)
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in}, err, "Failed to update inquiry. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess,
		"Inquiry \""+in.ProjectName+"\" successfully updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete inquiry failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting inquiry: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "Unknown"
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Inquiry \""+name+"\" successfully deleted")
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save inquiry failed", slog.Any("error", err))
	}
	h.pages.Inbox(r).Error(message)
	form.Errors = fields
	h.renderForm(w, r, form, view.StatusFor(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form formView, status int) {
	form.Meta = meta
	form.Statuses, form.InquiryTypes, form.ProjectTypes = Statuses, InquiryTypes, ProjectTypes
	if form.Errors == nil {
		form.Errors = internalShared.FieldErrors{}
	}

	var g resource.Group
	g.Add(sectionCustomers, func(ctx context.Context) (err error) {
		form.Customers, err = h.service.Customers(ctx)
		return err
	})
	g.Add(sectionEmployees, func(ctx context.Context) (err error) {
		form.Employees, err = h.service.Employees(ctx)
		return err
	})
	results := g.Wait(r.Context())
	inbox := h.pages.Inbox(r)
	for _, name := range results.Failed() {
		h.logger.Error("load inquiry dropdown failed", slog.String("section", name), slog.Any("error", results.Err(name)))
		inbox.Error("Failed to load " + name + ". Please try again.")
	}

	title := "New inquiry"
	if form.Editing {
		title = "Edit inquiry"
	}
	h.pages.Render(w, r, "pages/inquiries/form.html", title, form, status)
}

func parseInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	if err := shared.ParseForm(w, r); err != nil {
		return Input{}, err
	}
	return Input{
		QuotationNumber:   shared.Text(r, "quotationNumber"),
		ProjectName:       shared.Text(r, "projectName"),
		ProjectType:       shared.Raw(r, "projectType"),
		InquiryType:       shared.Raw(r, "inquiryType"),
		InquiryStatus:     shared.Raw(r, "inquiryStatus"),
		CustomerID:        shared.Int(r, "customerId"),
		SalesPersonID:     shared.Int(r, "salesPersonId"),
		EstimatorID:       shared.Int(r, "estimatorId"),
		ProjectReturnDate: shared.Raw(r, "projectReturnDate"),
		Notes:             shared.Text(r, "notes"),
	}, nil
}
