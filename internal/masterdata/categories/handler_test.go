package categories

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/testing/pagetest"
)

const tableJSON = `[
	{"categoryId":1,"categoryName":"Fasteners","mainCategoryName":"Fasteners","categoryStatus":"ACTIVE"},
	{"categoryId":2,"categoryName":"Bolts","mainCategoryName":"Fasteners","parentCategoryId":1,"categoryDescription":"Hex bolts"},
	{"categoryId":3,"categoryName":"Paint","mainCategoryName":"Paint"}
]`

func newHarness(t *testing.T) *pagetest.Harness {
	t.Helper()
	h := pagetest.New(t)
	svc := NewService(NewRepository(h.Client, h.Cache))
	NewHandler(h.Logger, svc, h.Responder, h.Audit).MountRoutes(h.Router)
	return h
}

func TestListFiltersAndCaches(t *testing.T) {
	h := newHarness(t)
	var tableCalls atomic.Int32
	h.Handle("GET /category/table", func(w http.ResponseWriter, r *http.Request) {
		tableCalls.Add(1)
		_, _ = io.WriteString(w, tableJSON)
	})
	h.JSON("GET /activityLog/Category", `[{"item":"Bolts","action":"CREATE","user":"admin","date":"2024-01-02"}]`)

	rec := h.Get("/categories?search=bolt")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Hex bolts")
	require.NotContains(t, body, "Paint")
	require.Contains(t, body, "Recent Activities")

	rec = h.Get("/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Paint")
	require.EqualValues(t, 1, tableCalls.Load())
}

func TestListFailureIsIsolated(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /category/table", tableJSON)
	h.Status("GET /activityLog/Category", http.StatusInternalServerError)

	rec := h.Get("/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Fasteners")
	require.Contains(t, rec.Body.String(), "Failed to load recent activities.")
}

func TestCreateMainCategoryDropsParent(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /category/parentCategoryDropDown", `[{"parentCategoryId":1,"parentCategoryName":"Fasteners"}]`)
	received := make(chan map[string]any, 1)
	h.Handle("POST /category", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received <- payload
		w.WriteHeader(http.StatusCreated)
	})

	rec := h.PostForm("/categories", url.Values{
		"categoryName":        {"<b>Paint</b>"},
		"categoryDescription": {"Coatings"},
		"parentCategoryId":    {"1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/categories", rec.Header().Get("Location"))

	payload := <-received
	require.Equal(t, "Paint", payload["categoryName"])
	require.Nil(t, payload["parentCategoryId"])
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Category "Paint" successfully created`}}, h.Flashes())
}

func TestCreateSubCategoryRequiresParent(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /category/parentCategoryDropDown", `[{"parentCategoryId":1,"parentCategoryName":"Fasteners"}]`)

	rec := h.PostForm("/categories", url.Values{"categoryName": {"Bolts"}, "isSubCategory": {"on"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Parent category is required for a subcategory")
	require.Contains(t, rec.Body.String(), "Fasteners")
	require.NotContains(t, h.Calls(), "POST /category")
}

func TestCreateBackendFailureKeepsInput(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /category/parentCategoryDropDown", `[]`)
	h.Status("POST /category", http.StatusInternalServerError)

	rec := h.PostForm("/categories", url.Values{"categoryName": {"Paint"}})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `value="Paint"`)

	pending := h.Notifications()
	require.Len(t, pending, 1)
	require.Equal(t, notify.KindError, pending[0].Kind)
	require.Equal(t, "Failed to create category. Please try again.", pending[0].Message)
}

func TestShowActivityTab(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /category/2", `{"categoryId":2,"categoryName":"Bolts","mainCategoryName":"Fasteners","parentCategoryId":1}`)
	h.JSON("GET /category/table", tableJSON)
	h.JSON("GET /activityLog/Category/2", `[{"actLogTimestamp":"2024-02-01T10:00:00","actLogAction":"UPDATE","actLogPerformedBy":"admin","actLogDetails":"renamed"}]`)

	rec := h.Get("/categories/2?tab=activity")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "renamed")
	require.Contains(t, body, "Paint")

	rec = h.Get("/categories/2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Subcategory of Fasteners")
}

func TestShowMissingCategory(t *testing.T) {
	h := newHarness(t)
	h.Status("GET /category/9", http.StatusNotFound)
	h.JSON("GET /category/table", tableJSON)

	require.Equal(t, http.StatusNotFound, h.Get("/categories/9").Code)
	require.Equal(t, http.StatusBadRequest, h.Get("/categories/abc").Code)
}

func TestDeleteBumpsCache(t *testing.T) {
	h := newHarness(t)
	var tableCalls atomic.Int32
	h.Handle("GET /category/table", func(w http.ResponseWriter, r *http.Request) {
		tableCalls.Add(1)
		_, _ = io.WriteString(w, tableJSON)
	})
	h.JSON("GET /activityLog/Category", `[]`)
	h.Status("DELETE /category/3", http.StatusNoContent)

	require.Equal(t, http.StatusOK, h.Get("/categories").Code)
	rec := h.PostForm("/categories/3/delete", url.Values{"name": {"Paint"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Category "Paint" successfully deleted`}}, h.Flashes())

	require.Equal(t, http.StatusOK, h.Get("/categories").Code)
	require.EqualValues(t, 2, tableCalls.Load())
}
