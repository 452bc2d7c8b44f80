package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type brand struct {
	BrandID   int64  `json:"brandId"`
	BrandName string `json:"brandName"`
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	metrics := NewMetrics(prometheus.NewRegistry())
	client, err := New(Config{BaseURL: srv.URL + "/api/synexis/", Metrics: metrics})
	require.NoError(t, err)
	return client, metrics
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"})
	require.Error(t, err)

	c, err := New(Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestURLEscapesSegments(t *testing.T) {
	c, err := New(Config{BaseURL: "http://api.local/root/"})
	require.NoError(t, err)
	require.Equal(t, "http://api.local/root/activityLog/Brand/7", c.URL("activityLog", "Brand", ID(7)))
	require.Equal(t, "http://api.local/root/unit/otherUnitDropDown/a%20b", c.URL("unit/otherUnitDropDown", "a b"))
}

func TestEndpointCRUD(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/synexis/brand", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"brandId":1,"brandName":"Acme"},{"brandId":2,"brandName":"Bolt"}]`)
	})
	mux.HandleFunc("GET /api/synexis/brand/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"brandId":1,"brandName":"Acme"}`)
	})
	mux.HandleFunc("DELETE /api/synexis/brand/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client, metrics := newTestClient(t, mux)
	brands := NewEndpoint[brand](client, "brand")

	list, err := brands.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	got, err := brands.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.BrandName)

	_, err = brands.Get(context.Background(), 9)
	require.ErrorIs(t, err, ErrNotFound)
	var callErr *Error
	require.True(t, errors.As(err, &callErr))
	require.Equal(t, http.StatusNotFound, callErr.Status)

	require.NoError(t, brands.Delete(context.Background(), 1))

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("brand", "get", "not_found")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.calls.WithLabelValues("brand", "get", "success")))
}

func TestEmptyBodyOnReadIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/synexis/brand/3" {
			_, _ = io.WriteString(w, "null")
		}
	}))
	brands := NewEndpoint[brand](client, "brand")

	_, err := brands.Get(context.Background(), 3)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = brands.Get(context.Background(), 4)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := brands.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestStatusTaxonomy(t *testing.T) {
	var status atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = io.WriteString(w, `{"message":"brandName must not be blank"}`)
	}))
	brands := NewEndpoint[brand](client, "brand")

	status.Store(http.StatusBadRequest)
	_, err := brands.Create(context.Background(), JSON(brand{}))
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "brandName must not be blank")

	status.Store(http.StatusInternalServerError)
	_, err = brands.List(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
	require.Equal(t, "network", Kind(err))
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := New(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)
	_, err = NewEndpoint[brand](client, "brand").List(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
}

func TestCancelledContextIsNetwork(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewEndpoint[brand](client, "brand").List(ctx)
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMultipartSubmission(t *testing.T) {
	type received struct {
		name     string
		country  string
		filename string
		data     string
		missing  bool
	}
	got := make(chan received, 1)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.ParseMultipartForm(1<<20) != nil {
			got <- received{}
			return
		}
		file, header, err := r.FormFile("brandImage")
		if err != nil {
			got <- received{}
			return
		}
		data, _ := io.ReadAll(file)
		_, hasWebsite := r.MultipartForm.Value["brandWebsite"]
		got <- received{
			name:     r.FormValue("brandName"),
			country:  r.FormValue("brandCountry"),
			filename: header.Filename,
			data:     string(data),
			missing:  !hasWebsite,
		}
		w.WriteHeader(http.StatusOK)
	}))

	form := NewMultipart().
		Field("brandName", "Acme").
		Field("brandCountry", "LK").
		OptionalField("brandWebsite", "").
		File("brandImage", &Upload{Filename: "logo.png", ContentType: "image/png", Data: []byte("png-bytes")}).
		File("ignored", &Upload{Filename: "empty.png"})
	require.Equal(t, 3, form.Len())

	out, err := NewEndpoint[brand](client, "brand").Update(context.Background(), 5, form)
	require.NoError(t, err)
	require.Zero(t, out)

	r := <-got
	require.Equal(t, received{name: "Acme", country: "LK", filename: "logo.png", data: "png-bytes", missing: true}, r)
}

func TestImageFetch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/synexis/employee/image/4" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8})
	}))
	employees := NewEndpoint[struct{}](client, "employee")

	blob, err := employees.Image(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", blob.ContentType)
	require.Equal(t, []byte{0xff, 0xd8}, blob.Data)

	_, err = employees.Image(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOversizedResponseIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(bytes.Repeat([]byte{0x89}, 65))
	}))
	t.Cleanup(srv.Close)
	client, err := New(Config{BaseURL: srv.URL, MaxResponseBytes: 64})
	require.NoError(t, err)

	_, err = NewEndpoint[struct{}](client, "brand").Image(context.Background(), 1)
	require.ErrorIs(t, err, ErrNetwork)
	require.Contains(t, err.Error(), "response exceeds 64 bytes")
}

func TestDetailKeepsRunesWhole(t *testing.T) {
	raw := strings.Repeat("a", maxErrorDetail-1) + "é tail"
	got := detail([]byte(raw))
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("a", maxErrorDetail-1), got)

	require.Equal(t, "short", detail([]byte("  short  ")))
}

func TestSideDropAndListAt(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/synexis/unit/sideDrop":
			_, _ = io.WriteString(w, `[{"unitId":1,"unitName":"Kilogram"}]`)
		case "/api/synexis/unit/otherUnitDropDown/1":
			_, _ = io.WriteString(w, `[{"otherUnitId":2,"otherUnitName":"Gram"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	type side struct {
		UnitID   int64  `json:"unitId"`
		UnitName string `json:"unitName"`
	}
	type other struct {
		OtherUnitID   int64  `json:"otherUnitId"`
		OtherUnitName string `json:"otherUnitName"`
	}
	sides, err := SideDrop[side](context.Background(), client, "unit")
	require.NoError(t, err)
	require.Equal(t, []side{{UnitID: 1, UnitName: "Kilogram"}}, sides)

	others, err := ListAt[other](context.Background(), client, "unit", "other_units", "unit", "otherUnitDropDown", ID(1))
	require.NoError(t, err)
	require.Equal(t, []other{{OtherUnitID: 2, OtherUnitName: "Gram"}}, others)
}

func TestRequiredIsValidation(t *testing.T) {
	err := Required("brand", "brandName")
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "brand validate: backend: validation failed: brandName is required", err.Error())
}
