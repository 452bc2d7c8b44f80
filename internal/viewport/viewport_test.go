package viewport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/shared"
)

func TestObserverNotifiesOnlyOnFlip(t *testing.T) {
	o := NewObserver(0)
	require.False(t, o.IsCompact())

	var flips []bool
	unsubscribe := o.Subscribe(func(compact bool) { flips = append(flips, compact) })

	o.SetWidth(1200)
	o.SetWidth(1000)
	o.SetWidth(500)
	o.SetWidth(400)
	o.SetWidth(768)
	o.SetWidth(767)
	require.Equal(t, []bool{true, false, true}, flips)
	require.True(t, o.IsCompact())
	require.Equal(t, 767, o.Width())

	unsubscribe()
	o.SetWidth(2000)
	require.Len(t, flips, 3)
}

func TestConcurrentFlipsArriveInOrder(t *testing.T) {
	o := NewObserver(768)
	layout := NewLayout(o)

	var (
		mu    sync.Mutex
		flips []bool
	)
	o.Subscribe(func(compact bool) {
		mu.Lock()
		flips = append(flips, compact)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				o.SetWidth(400)
			} else {
				o.SetWidth(1200)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, !o.IsCompact(), layout.SidebarOpen())
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, flips)
	require.True(t, flips[0])
	for i := 1; i < len(flips); i++ {
		require.NotEqual(t, flips[i-1], flips[i], "flip %d repeats", i)
	}
	require.Equal(t, o.IsCompact(), flips[len(flips)-1])
}

func TestObserverIgnoresInvalidWidth(t *testing.T) {
	o := NewObserver(768)
	o.SetWidth(500)
	o.SetWidth(0)
	o.SetWidth(-5)
	require.Equal(t, 500, o.Width())
}

func TestLayoutSidebarFollowsCompactFlip(t *testing.T) {
	o := NewObserver(768)
	l := NewLayout(o)
	require.True(t, l.SidebarOpen())

	o.SetWidth(600)
	require.False(t, l.SidebarOpen())

	require.True(t, l.ToggleSidebar())
	o.SetWidth(650)
	require.True(t, l.SidebarOpen(), "no flip keeps the user's choice")

	o.SetWidth(1024)
	require.True(t, l.SidebarOpen())
	require.False(t, l.ToggleSidebar())
	o.SetWidth(500)
	o.SetWidth(900)
	require.True(t, l.SidebarOpen())
	require.Equal(t, View{Width: 900, Compact: false, SidebarOpen: true}, l.View())
}

func TestRegistrySweepsIdleLayouts(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(768, time.Hour)
	r.now = func() time.Time { return now }

	first := r.Layout("a")
	require.Same(t, first, r.Layout("a"))
	r.Layout("b")

	now = now.Add(45 * time.Minute)
	r.Layout("b")
	now = now.Add(30 * time.Minute)

	require.Equal(t, 1, r.Sweep())
	require.Equal(t, 1, r.Len())
	r.Forget("b")
	require.Zero(t, r.Len())
}

func TestRequestWidthSources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Zero(t, RequestWidth(req))

	req.AddCookie(&http.Cookie{Name: WidthCookie, Value: "640"})
	require.Equal(t, 640, RequestWidth(req))

	req.Header.Set("Viewport-Width", "1024")
	require.Equal(t, 1024, RequestWidth(req))

	req.Header.Set("Sec-CH-Viewport-Width", "390")
	require.Equal(t, 390, RequestWidth(req))
}

func newLayoutRouter(reg *Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &shared.Session{ID: "session-1"}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Use(reg.Middleware)
	r.Route("/ui", NewHandler(reg).MountRoutes)
	return r
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) (int, View) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var view View
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	}
	return rec.Code, view
}

func TestLayoutEndpoints(t *testing.T) {
	reg := NewRegistry(768, 0)
	router := newLayoutRouter(reg)

	code, view := postForm(t, router, "/ui/viewport", url.Values{"width": {"500"}})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, View{Width: 500, Compact: true, SidebarOpen: false}, view)

	code, view = postForm(t, router, "/ui/sidebar", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, view.SidebarOpen)

	code, view = postForm(t, router, "/ui/sidebar", url.Values{"open": {"false"}})
	require.Equal(t, http.StatusOK, code)
	require.False(t, view.SidebarOpen)

	code, _ = postForm(t, router, "/ui/viewport", url.Values{"width": {"wide"}})
	require.Equal(t, http.StatusBadRequest, code)

	require.Equal(t, 1, reg.Len())
	require.True(t, reg.Layout("session-1").Observer().IsCompact())
}
