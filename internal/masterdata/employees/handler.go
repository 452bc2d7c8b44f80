package employees

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

var meta = shared.Meta{Entity: audit.EntityEmployee, Singular: "employee", Plural: "employees", BasePath: "/employees"}

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	sources shared.Sources[Employee]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		sources: shared.Sources[Employee]{
			Meta:     meta,
			List:     service.List,
			Get:      service.Get,
			Side:     service.Options,
			Activity: activity,
			Fields:   Fields,
		},
	}
}

// MountRoutes registers employee pages under /employees.
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
	Prefixes []Choice
	Genders  []Choice
	Roles    []Choice
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/employees/list.html", "Employees", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Employee", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get employee failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Employee", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/employees/detail.html", detail.Record.FullName(), detail, http.StatusOK)
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
		h.pages.Fail(w, r, "New employee", err)
		return
	}
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in}, err, "Failed to create employee. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Employee added successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit employee", err)
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get employee failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit employee", err)
		return
	}
	in := Input{
		EmployeePrefix:      e.EmployeePrefix,
		EmployeeFirstName:   e.EmployeeFirstName,
		EmployeeLastName:    e.EmployeeLastName,
		EmployeeNIC:         e.EmployeeNIC,
		EmployeeDOB:         e.EmployeeDOB,
		EmployeeGender:      e.EmployeeGender,
		EmployeeEmail:       e.EmployeeEmail,
		EmployeePhoneNumber: e.EmployeePhoneNumber,
		AddressLine1:        e.AddressLine1,
		AddressLine2:        e.AddressLine2,
		City:                e.City,
		ZipCode:             e.ZipCode,
		Role:                e.Role,
		EmploymentDate:      e.EmploymentDate,
		Salary:              e.Salary,
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, HasImage: e.HasImage(), Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit employee", err)
		return
	}
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "Edit employee", err)
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in}, err, "Failed to update employee. Please try again.")
		return
	}
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess, "Employee updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete employee failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting employee: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "Employee"
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Employee \""+name+"\" successfully deleted")
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save employee failed", slog.Any("error", err))
	}
	h.pages.Inbox(r).Error(message)
	form.Errors = fields
	h.renderForm(w, r, form, view.StatusFor(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form formView, status int) {
	form.Meta = meta
	form.Prefixes, form.Genders, form.Roles = Prefixes, Genders, Roles
	if form.Errors == nil {
		form.Errors = internalShared.FieldErrors{}
	}
	title := "New employee"
	if form.Editing {
		title = "Edit employee"
	}
	h.pages.Render(w, r, "pages/employees/form.html", title, form, status)
}

func parseInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	if err := shared.ParseForm(w, r); err != nil {
		return Input{}, err
	}
	image, err := shared.Upload(r, "employeeImage")
	if err != nil {
		return Input{}, err
	}
	return Input{
		EmployeePrefix:      shared.Raw(r, "employeePrefix"),
		EmployeeFirstName:   shared.Text(r, "employeeFirstName"),
		EmployeeLastName:    shared.Text(r, "employeeLastName"),
		EmployeeNIC:         shared.Text(r, "employeeNIC"),
		EmployeeDOB:         shared.Raw(r, "employeeDOB"),
		EmployeeGender:      shared.Raw(r, "employeeGender"),
		EmployeeEmail:       shared.Raw(r, "employeeEmail"),
		EmployeePhoneNumber: shared.Text(r, "employeePhoneNumber"),
		AddressLine1:        shared.Text(r, "addressLine1"),
		AddressLine2:        shared.Text(r, "addressLine2"),
		City:                shared.Text(r, "city"),
		ZipCode:             shared.Text(r, "zipCode"),
		Role:                shared.Raw(r, "Role"),
		EmploymentDate:      shared.Raw(r, "employmentDate"),
		Salary:              shared.Float(r, "salary"),
		Image:               image,
	}, nil
}
