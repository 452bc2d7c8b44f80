package materials

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/platform/httpx"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/view"
)

// settleTimeout bounds how long a page waits for dropdown options.
const settleTimeout = 5 * time.Second

var meta = shared.Meta{Entity: audit.EntityMaterial, Singular: "material", Plural: "materials", BasePath: "/materials"}

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Responder
	forms   *cascade.Registry
	sources shared.Sources[Material]
}

func NewHandler(logger *slog.Logger, service *Service, pages *view.Responder, activity *audit.Service, forms *cascade.Registry) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pages:   pages,
		forms:   forms,
		sources: shared.Sources[Material]{
			Meta:     meta,
			List:     service.List,
			Get:      service.Get,
			Side:     service.SideOptions,
			Activity: activity,
			Fields:   Fields,
		},
	}
}

// MountRoutes registers material pages and the live form endpoints under
// /materials.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route(meta.BasePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/new", h.Form)
		r.Post("/", h.Create)
		r.Post("/form/{token}/select", h.Select)
		r.Delete("/form/{token}", h.Unmount)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/image", h.Image)
		r.Get("/{id}/edit", h.EditForm)
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/delete", h.Delete)
	})
}

type formView struct {
	Meta           shared.Meta
	Editing        bool
	ID             int64
	HasImage       bool
	Input          Input
	Errors         internalShared.FieldErrors
	Token          string
	Fields         map[string]cascade.Field
	InventoryTypes []Choice
	MaterialTypes  []Choice
}

type snapshotResponse struct {
	Token         string                `json:"token"`
	Fields        []cascade.Field       `json:"fields"`
	Notifications []notify.Notification `json:"notifications"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, results := h.sources.LoadList(r.Context(), listing.ParseQuery(r))
	shared.Report(h.pages.Inbox(r), h.logger, meta, results)
	h.pages.Render(w, r, "pages/materials/list.html", "Materials", page, http.StatusOK)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Material", err)
		return
	}
	logPage, _ := strconv.Atoi(r.URL.Query().Get("page"))
	detail, results := h.sources.LoadDetail(r.Context(), id, shared.ParseTab(r), logPage)
	if err := results.Err(shared.SectionRecord); err != nil {
		h.logger.Error("get material failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Material", err)
		return
	}
	shared.Report(h.pages.Inbox(r), h.logger, meta, results, shared.SectionRecord)
	h.pages.Render(w, r, "pages/materials/detail.html", detail.Record.MaterialName, detail, http.StatusOK)
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
		h.pages.Fail(w, r, "New material", err)
		return
	}
	token := r.PostFormValue("formToken")
	if err := h.service.Create(r.Context(), in); err != nil {
		h.formFailed(w, r, formView{Input: in, Token: token}, err, "Failed to create material. Please try again.")
		return
	}
	h.forms.Release(owner(r), token)
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Material \""+in.MaterialName+"\" successfully created")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit material", err)
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get material failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Fail(w, r, "Edit material", err)
		return
	}
	in := Input{
		MaterialName:          m.MaterialName,
		MaterialSKU:           m.MaterialSKU,
		MaterialDescription:   m.MaterialDescription,
		MaterialPartNumber:    m.MaterialPartNumber,
		MaterialInventoryType: m.MaterialInventoryType,
		MaterialType:          m.MaterialType,
		BrandID:               m.BrandID,
		CategoryID:            m.CategoryID,
		SubCategoryID:         m.SubCategoryID,
		MaterialMake:          m.MaterialMake,
		MaterialPurchasePrice: m.MaterialPurchasePrice,
		MaterialMarketPrice:   m.MaterialMarketPrice,
		AlertQuantity:         m.AlertQuantity,
		BaseUnitID:            m.BaseUnitID,
		OtherUnitID:           m.OtherUnitID,
		MaterialForUse:        m.MaterialForUse,
	}
	h.renderForm(w, r, formView{Editing: true, ID: id, HasImage: m.HasImage(), Input: in}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Fail(w, r, "Edit material", err)
		return
	}
	in, err := parseInput(w, r)
	if err != nil {
		h.pages.Fail(w, r, "Edit material", err)
		return
	}
	token := r.PostFormValue("formToken")
	if err := h.service.Update(r.Context(), id, in); err != nil {
		h.formFailed(w, r, formView{Editing: true, ID: id, Input: in, Token: token}, err, "Failed to update material. Please try again.")
		return
	}
	h.forms.Release(owner(r), token)
	h.pages.Redirect(w, r, meta.BasePath+"/"+strconv.FormatInt(id, 10), notify.KindSuccess, "Material \""+in.MaterialName+"\" successfully updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, internalShared.UserSafeMessage(err))
		return
	}
	name := r.PostFormValue("name")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete material failed", slog.Any("error", err), slog.Int64("id", id))
		h.pages.Redirect(w, r, meta.BasePath, notify.KindError, "Error deleting material: "+internalShared.UserSafeMessage(err))
		return
	}
	if name == "" {
		name = "Material"
	}
	h.pages.Redirect(w, r, meta.BasePath, notify.KindSuccess, "Material \""+name+"\" successfully deleted")
}

// Select applies one dropdown change to a live form and returns the
// settled snapshot.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	form, err := h.forms.Get(owner(r), token)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Form Not Found", "the form expired, reload the page")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "form could not be parsed")
		return
	}
	key := r.PostForm.Get("key")
	value, err := shared.OptionalInt(r, "value")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Value", "value must be a positive integer or blank")
		return
	}
	inbox := h.pages.Inbox(r)
	seen := make(map[string]bool)
	for _, n := range inbox.Pending() {
		seen[n.ID] = true
	}
	if err := form.SetFieldValue(key, value); err != nil {
		switch {
		case errors.Is(err, cascade.ErrUnknownField):
			httpx.Problem(w, http.StatusBadRequest, "Unknown Field", key)
		case errors.Is(err, cascade.ErrParentUnset):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		default:
			httpx.Problem(w, http.StatusNotFound, "Form Not Found", "the form expired, reload the page")
		}
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), settleTimeout)
	defer cancel()
	if err := form.Settle(ctx); err != nil {
		h.logger.Warn("material form did not settle", slog.String("token", token), slog.Any("error", err))
	}
	resp := snapshotResponse{Token: token, Fields: form.Snapshot(), Notifications: []notify.Notification{}}
	for _, n := range inbox.Pending() {
		if seen[n.ID] {
			continue
		}
		inbox.Dismiss(n.ID)
		resp.Notifications = append(resp.Notifications, n)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Unmount closes a live form when the page is left.
func (h *Handler) Unmount(w http.ResponseWriter, r *http.Request) {
	if !h.forms.Release(owner(r), chi.URLParam(r, "token")) {
		httpx.Problem(w, http.StatusNotFound, "Form Not Found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, form formView, err error, fallback string) {
	fields, message := shared.FormFailure(err, fallback)
	if len(fields) == 0 {
		h.logger.Error("save material failed", slog.Any("error", err))
	}
	h.pages.Inbox(r).Error(message)
	form.Errors = fields
	h.renderForm(w, r, form, view.StatusFor(err))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form formView, status int) {
	form.Meta = meta
	form.InventoryTypes = InventoryTypes
	form.MaterialTypes = MaterialTypes
	if form.Errors == nil {
		form.Errors = internalShared.FieldErrors{}
	}
	token, fields := h.liveForm(r, form.Token, form.Input)
	form.Token = token
	form.Fields = fields
	title := "New material"
	if form.Editing {
		title = "Edit material"
	}
	h.pages.Render(w, r, "pages/materials/form.html", title, form, status)
}

// liveForm reuses the submitted live form or opens a new one, selects the
// values of in and waits for the dependent options.
func (h *Handler) liveForm(r *http.Request, token string, in Input) (string, map[string]cascade.Field) {
	form, err := h.forms.Get(owner(r), token)
	if err != nil {
		inbox := h.pages.Inbox(r)
		form, err = h.service.NewForm(cascade.Config{
			Logger:  h.logger,
			OnError: func(f cascade.Field, _ error) { inbox.Error(LoadFailure(f.Key)) },
		})
		if err != nil {
			h.logger.Error("build material form", slog.Any("error", err))
			return "", map[string]cascade.Field{}
		}
		token, err = h.forms.Open(owner(r), form)
		if err != nil {
			h.logger.Error("open material form", slog.Any("error", err))
			return "", map[string]cascade.Field{}
		}
	}
	if err := Preset(form, in); err != nil {
		h.logger.Warn("preset material form", slog.Any("error", err))
	}
	ctx, cancel := context.WithTimeout(r.Context(), settleTimeout)
	defer cancel()
	if err := form.Settle(ctx); err != nil {
		h.logger.Warn("material form did not settle", slog.Any("error", err))
	}
	return token, FieldMap(form.Snapshot())
}

func owner(r *http.Request) string {
	return internalShared.SessionID(r.Context())
}

func parseInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	if err := shared.ParseForm(w, r); err != nil {
		return Input{}, err
	}
	image, err := shared.Upload(r, "materialImage")
	if err != nil {
		return Input{}, err
	}
	return Input{
		MaterialName:          shared.Text(r, "materialName"),
		MaterialSKU:           shared.Text(r, "materialSKU"),
		MaterialDescription:   shared.Text(r, "materialDescription"),
		MaterialPartNumber:    shared.Text(r, "materialPartNumber"),
		MaterialInventoryType: shared.Raw(r, "materialInventoryType"),
		MaterialType:          shared.Raw(r, "materialType"),
		BrandID:               shared.Int(r, FieldBrand),
		CategoryID:            shared.Int(r, FieldCategory),
		SubCategoryID:         shared.Int(r, FieldSubCategory),
		MaterialMake:          shared.Text(r, "materialMake"),
		MaterialPurchasePrice: shared.Float(r, "materialPurchasePrice"),
		MaterialMarketPrice:   shared.Float(r, "materialMarketPrice"),
		AlertQuantity:         shared.Float(r, "alertQuantity"),
		BaseUnitID:            shared.Int(r, FieldBaseUnit),
		OtherUnitID:           shared.Int(r, FieldOtherUnit),
		MaterialForUse:        shared.Bool(r, "materialForUse"),
		Image:                 image,
	}, nil
}
