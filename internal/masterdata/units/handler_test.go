package units

import (
	"encoding/json"
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

func capture(h *pagetest.Harness, pattern string) <-chan map[string]any {
	got := make(chan map[string]any, 1)
	h.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got <- payload
		w.WriteHeader(http.StatusOK)
	})
	return got
}

func TestCreateSingleUnitClearsConversion(t *testing.T) {
	h := newHarness(t)
	got := capture(h, "POST /unit")

	rec := h.PostForm("/units", url.Values{
		"unitName":             {"Piece"},
		"unitShortName":        {"pcs"},
		"baseUnitId":           {"3"},
		"unitConversionFactor": {"12"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	payload := <-got
	require.Equal(t, "Piece", payload["unitName"])
	require.Contains(t, payload, "baseUnitId")
	require.Nil(t, payload["baseUnitId"])
	require.Nil(t, payload["unitConversionFactor"])
	require.Equal(t, false, payload["unitAllowDecimal"])
}

func TestCreateMultipleUnit(t *testing.T) {
	h := newHarness(t)
	got := capture(h, "POST /unit")

	rec := h.PostForm("/units", url.Values{
		"unitName":             {"Box"},
		"unitShortName":        {"box"},
		"unitAllowDecimal":     {"on"},
		"isMultiple":           {"on"},
		"baseUnitId":           {"3"},
		"unitConversionFactor": {"12.5"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	payload := <-got
	require.EqualValues(t, 3, payload["baseUnitId"])
	require.EqualValues(t, 12.5, payload["unitConversionFactor"])
	require.Equal(t, true, payload["unitAllowDecimal"])
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Unit "Box" successfully created`}}, h.Flashes())
}

func TestMultipleUnitNeedsPositiveFactor(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /unit/baseUnitDropDown", `[{"baseUnitId":3,"baseUnitName":"Piece"}]`)

	rec := h.PostForm("/units", url.Values{
		"unitName":             {"Box"},
		"unitShortName":        {"box"},
		"isMultiple":           {"on"},
		"unitConversionFactor": {"0"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Base unit is required for a multiple unit")
	require.Contains(t, body, "Conversion factor must be greater than 0")
	require.Contains(t, body, "Piece")
}

func TestNonFiniteFactorIsFieldError(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /unit/baseUnitDropDown", `[]`)

	for _, factor := range []string{"NaN", "Inf", "-Inf"} {
		rec := h.PostForm("/units", url.Values{
			"unitName":             {"Box"},
			"unitShortName":        {"box"},
			"isMultiple":           {"on"},
			"baseUnitId":           {"3"},
			"unitConversionFactor": {factor},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, factor)
		require.Contains(t, rec.Body.String(), "Conversion factor must be greater than 0", factor)
	}
	require.NotContains(t, h.Calls(), "POST /unit")
}

func TestUpdateRejectsSelfBase(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /unit/baseUnitDropDown", `[]`)

	rec := h.PostForm("/units/4/edit", url.Values{
		"unitName":             {"Box"},
		"unitShortName":        {"box"},
		"isMultiple":           {"on"},
		"baseUnitId":           {"4"},
		"unitConversionFactor": {"2"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "A unit cannot be its own base unit")
}

func TestShowConversion(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /unit/5", `{"unitId":5,"unitName":"Box","unitShortName":"box","baseUnitId":3,"baseUnitName":"pcs","unitConversionFactor":12}`)
	h.JSON("GET /unit/sideDrop", `[{"unitId":5,"unitName":"Box"},{"unitId":3,"unitName":"Piece"}]`)

	rec := h.Get("/units/5")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "1 box = 12 pcs")
	require.Contains(t, body, "Piece")
}
