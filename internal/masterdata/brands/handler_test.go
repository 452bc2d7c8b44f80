package brands

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/shared"
	"github.com/synexis/synexis-admin/internal/testing/pagetest"
)

var png = []byte("\x89PNG\r\n\x1a\n0000")

func newHarness(t *testing.T) *pagetest.Harness {
	t.Helper()
	h := pagetest.New(t)
	svc := NewService(NewRepository(h.Client, h.Cache))
	NewHandler(h.Logger, svc, h.Responder, h.Audit).MountRoutes(h.Router)
	return h
}

func TestCreateSendsMultipart(t *testing.T) {
	h := newHarness(t)
	type received struct {
		name, website, file, contentType string
	}
	got := make(chan received, 1)
	h.Handle("POST /brand", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("brandImage")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		got <- received{
			name:        r.FormValue("brandName"),
			website:     r.FormValue("brandWebsite"),
			file:        string(data),
			contentType: header.Header.Get("Content-Type"),
		}
		w.WriteHeader(http.StatusCreated)
	})

	rec := h.PostMultipart("/brands", url.Values{
		"brandName":    {"Makita"},
		"brandWebsite": {"makita.com"},
	}, pagetest.File{Field: "brandImage", Filename: "logo.png", ContentType: "image/png", Data: png})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	payload := <-got
	require.Equal(t, "Makita", payload.name)
	require.Equal(t, "https://makita.com", payload.website)
	require.Equal(t, string(png), payload.file)
	require.Equal(t, "image/png", payload.contentType)
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: `Brand "Makita" successfully created`}}, h.Flashes())
}

func TestCreateRejectsNonImage(t *testing.T) {
	h := newHarness(t)

	rec := h.PostMultipart("/brands", url.Values{"brandName": {"Makita"}},
		pagetest.File{Field: "brandImage", Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Brand image must be an image file")
	require.Empty(t, h.Calls())
}

func TestCreateRequiresName(t *testing.T) {
	h := newHarness(t)

	rec := h.PostForm("/brands", url.Values{"brandCountry": {"Japan"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), `value="Japan"`)
	pending := h.Notifications()
	require.Len(t, pending, 1)
	require.Contains(t, pending[0].Message, "Brand name")
}

func TestShowListsSideDrop(t *testing.T) {
	h := newHarness(t)
	h.JSON("GET /brand/2", `{"brandId":2,"brandName":"Bosch","brandCountry":"Germany","brandImageUrl":"/x.png"}`)
	h.JSON("GET /brand/sideDrop", `[{"brandId":2,"brandName":"Bosch"},{"brandId":1,"brandName":"Atlas"}]`)

	rec := h.Get("/brands/2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Germany")
	require.Contains(t, body, "Atlas")
	require.Contains(t, body, `src="/brands/2/image"`)
}

func TestImageProxy(t *testing.T) {
	h := newHarness(t)
	h.Handle("GET /brand/image/4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})
	h.Status("GET /brand/image/5", http.StatusNotFound)

	rec := h.Get("/brands/4/image")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, png, rec.Body.Bytes())

	require.Equal(t, http.StatusNotFound, h.Get("/brands/5/image").Code)
	require.Equal(t, http.StatusBadRequest, h.Get("/brands/x/image").Code)
}
