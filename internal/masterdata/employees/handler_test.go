package employees

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/testing/pagetest"
)

func newHarness(t *testing.T) *pagetest.Harness {
	t.Helper()
	h := pagetest.New(t)
	svc := NewService(NewRepository(h.Client, h.Cache))
	NewHandler(h.Logger, svc, h.Responder, h.Audit).MountRoutes(h.Router)
	return h
}

func validForm() url.Values {
	return url.Values{
		"employeePrefix":      {"Ms"},
		"employeeFirstName":   {"Nimali"},
		"employeeLastName":    {"Perera"},
		"employeeNIC":         {"9012v"},
		"employeeEmail":       {"Nimali@Example.com"},
		"employeePhoneNumber": {"0771234567"},
		"Role":                {"ESTIMATOR"},
		"salary":              {"85000"},
	}
}

func TestCreateSendsMultipart(t *testing.T) {
	h := newHarness(t)
	got := make(chan url.Values, 1)
	files := make(chan string, 1)
	h.Handle("POST /employee", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got <- r.MultipartForm.Value
		_, header, err := r.FormFile("employeeImage")
		require.NoError(t, err)
		files <- header.Filename
		w.WriteHeader(http.StatusCreated)
	})

	rec := h.PostMultipart("/employees", validForm(),
		pagetest.File{Field: "employeeImage", Filename: "me.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	sent := <-got
	require.Equal(t, "nimali@example.com", sent.Get("employeeEmail"))
	require.Equal(t, "9012V", sent.Get("employeeNIC"))
	require.Equal(t, "ESTIMATOR", sent.Get("Role"))
	require.Equal(t, "85000", sent.Get("salary"))
	require.NotContains(t, sent, "employmentDate")
	require.Equal(t, "me.jpg", <-files)
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: "Employee added successfully"}}, h.Flashes())
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	form := validForm()
	form.Set("employeeEmail", "not-an-email")
	form.Del("employeeFirstName")
	form.Set("Role", "JANITOR")

	rec := h.PostForm("/employees", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "First name is required")
	require.Contains(t, body, `value="not-an-email"`)
	require.Empty(t, h.Calls())
	require.Len(t, h.Notifications(), 1)
}

func TestUpdateFailureKeepsInput(t *testing.T) {
	h := newHarness(t)
	h.Status("PUT /employee/3", http.StatusInternalServerError)

	rec := h.PostForm("/employees/3/edit", validForm())
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `value="Nimali"`)
	pending := h.Notifications()
	require.Len(t, pending, 1)
	require.Equal(t, "Failed to update employee. Please try again.", pending[0].Message)
}

func TestShowEmployee(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /employee/3", `{"employeeId":3,"employeePrefix":"Ms","employeeFirstName":"Nimali","employeeLastName":"Perera","Role":"SALES_MANAGER","salary":85000,"employmentDate":"2023-04-01","status":"ACTIVE"}`)
	h.JSON("GET /employee/sideDrop", `[{"employeeId":3,"employeeFirstName":"Nimali","employeeLastName":"Perera"},{"employeeId":4,"employeeName":"Kasun Silva"}]`)

	rec := h.Get("/employees/3")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Ms. Nimali Perera")
	require.Contains(t, body, "Sales Manager")
	require.Contains(t, body, "85,000.00")
	require.Contains(t, body, "01 Apr 2023")
	require.Contains(t, body, "Kasun Silva")
	require.Contains(t, body, ">NP<")
}

func TestDeleteReportsBackendError(t *testing.T) {
	h := newHarness(t)
	h.Status("DELETE /employee/3", http.StatusNotFound)

	rec := h.PostForm("/employees/3/delete", url.Values{"name": {"Nimali"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	flashes := h.Flashes()
	require.Len(t, flashes, 1)
	require.Equal(t, "error", flashes[0].Kind)
	require.Contains(t, flashes[0].Message, "Error deleting employee: ")
}

func TestImageProxy(t *testing.T) {
	h := newHarness(t)
	h.Handle("GET /employee/image/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	})

	rec := h.Get("/employees/3/image")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	require.Equal(t, http.StatusBadRequest, h.Get("/employees/0/image").Code)
}
