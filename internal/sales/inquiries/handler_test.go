package inquiries

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/masterdata/employees"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/sales/customers"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/testing/pagetest"
)

func newHarness(t *testing.T) *pagetest.Harness {
	t.Helper()
	h := pagetest.New(t)
	customerSvc := customers.NewService(customers.NewRepository(h.Client, h.Cache))
	employeeSvc := employees.NewService(employees.NewRepository(h.Client, h.Cache))
	svc := NewService(NewRepository(h.Client, h.Cache), Lookups{
		Customers: customerSvc.Options,
		Employees: employeeSvc.Options,
	})
	NewHandler(h.Logger, svc, h.Responder, h.Audit).MountRoutes(h.Router)
	return h
}

func dropdowns(h *pagetest.Harness) {
	h.JSON("GET /customer/sideDrop", `[{"customerId":8,"customerName":"Acme Lanka"}]`)
	h.JSON("GET /employee/sideDrop", `[{"employeeId":3,"employeeName":"Nimali Perera"},{"employeeId":4,"employeeName":"Kasun Silva"}]`)
}

func TestCreateSendsJSON(t *testing.T) {
	h := newHarness(t)
	got := make(chan map[string]any, 1)
	h.Handle("POST /inquiry", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		got <- body
		w.WriteHeader(http.StatusCreated)
	})

	rec := h.PostForm("/inquiries", url.Values{
		"quotationNumber": {"q-2024-01"},
		"projectName":     {"Harbour substation"},
		"customerId":      {"8"},
		"salesPersonId":   {"3"},
		"inquiryType":     {"TENDER"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := <-got
	require.Equal(t, "Q-2024-01", body["quotationNumber"])
	require.Equal(t, float64(8), body["customerId"])
	require.Equal(t, float64(3), body["salesPersonId"])
	require.Nil(t, body["estimatorId"])
	require.Equal(t, "PENDING", body["inquiryStatus"])
	require.NotContains(t, body, "projectReturnDate")
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Inquiry "Harbour substation" successfully created`}}, h.Flashes())
}

func TestCreateRequiresProjectAndCustomer(t *testing.T) {
	h := newHarness(t)
	dropdowns(h)

	rec := h.PostForm("/inquiries", url.Values{"notes": {"call back"}, "salesPersonId": {"4"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Project name is required")
	require.Contains(t, body, "Customer is required")
	require.Contains(t, body, `<option value="4" selected>Kasun Silva</option>`)
	require.Contains(t, body, "call back")
	require.NotContains(t, h.Calls(), "POST /inquiry")
}

func TestFormReportsDropdownFailure(t *testing.T) {
	h := newHarness(t)
	h.Status("GET /customer/sideDrop", http.StatusInternalServerError)
	h.JSON("GET /employee/sideDrop", `[{"employeeId":3,"employeeName":"Nimali Perera"}]`)

	rec := h.Get("/inquiries/new")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Nimali Perera")

	pending := h.Notifications()
	require.Len(t, pending, 1)
	require.Equal(t, notify.KindError, pending[0].Kind)
	require.Equal(t, "Failed to load customers. Please try again.", pending[0].Message)
}

func TestShowInquiry(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /inquiry/12", `{"inquiryId":12,"quotationNumber":"Q-12","projectName":"Depot lighting","inquiryStatus":"REJECTED","customerName":"Acme Lanka","estimatorName":"Kasun Silva","projectReturnDate":"2024-06-30","notes":"Budget cut"}`)
	h.JSON("GET /inquiry/sideDrop", `[{"inquiryId":12,"projectName":"Depot lighting","quotationNumber":"Q-12"},{"inquiryId":13,"projectName":"Mall"}]`)

	rec := h.Get("/inquiries/12")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `class="badge badge--red"`)
	require.Contains(t, body, "30 Jun 2024")
	require.Contains(t, body, "Budget cut")
	require.Contains(t, body, "Mall")
}

func TestDeleteUsesQuotationNumber(t *testing.T) {
	h := newHarness(t)
	h.Status("DELETE /inquiry/12", http.StatusNoContent)

	rec := h.PostForm("/inquiries/12/delete", url.Values{"name": {"Q-12"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Inquiry "Q-12" successfully deleted`}}, h.Flashes())
}
