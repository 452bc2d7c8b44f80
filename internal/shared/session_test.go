package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/shared"
)

func newSessionManager(t *testing.T) (*shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestFlashSurvivesRedirect(t *testing.T) {
	sm, mr := newSessionManager(t)
	ctx := context.Background()

	first := httptest.NewRequest(http.MethodPost, "/brands", nil)
	sess, err := sm.Load(ctx, first)
	require.NoError(t, err)
	sess.Set("k", "v")
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Brand created"})
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, first, sess))
	require.True(t, mr.Exists("synexis:session:"+sess.ID))

	second := httptest.NewRequest(http.MethodGet, "/brands", nil)
	second.AddCookie(sessionCookie(t, rec, sm.CookieName()))
	loaded, err := sm.Load(ctx, second)
	require.NoError(t, err)
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, "v", loaded.Get("k"))
	flashes := loaded.DrainFlashes()
	require.Equal(t, []shared.FlashMessage{{Kind: "success", Message: "Brand created"}}, flashes)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), second, loaded))

	third := httptest.NewRequest(http.MethodGet, "/brands", nil)
	third.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	again, err := sm.Load(ctx, third)
	require.NoError(t, err)
	require.Nil(t, again.PopFlash())
}

func TestDestroyRemovesSession(t *testing.T) {
	sm, mr := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))
	require.True(t, mr.Exists("synexis:session:"+sess.ID))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	require.False(t, mr.Exists("synexis:session:"+sess.ID))
	require.Equal(t, -1, sessionCookie(t, rec, sm.CookieName()).MaxAge)
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	sm, _ := newSessionManager(t)
	csrf := shared.NewCSRFManager("csrf-secret")
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, csrf.VerifyToken(context.Background(), sess, token))
	require.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, ""), shared.ErrCSRFTokenMissing)
	require.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, "forged"), shared.ErrCSRFTokenMismatch)
}

func TestCSRFTokenIsBoundToSession(t *testing.T) {
	sm, _ := newSessionManager(t)
	csrf := shared.NewCSRFManager("csrf-secret")
	alice, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	bob, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEqual(t, alice.ID, bob.ID)

	token, err := csrf.EnsureToken(context.Background(), alice)
	require.NoError(t, err)
	require.Contains(t, token, ".")

	bob.Set(shared.CSRFSessionKey, token)
	require.ErrorIs(t, csrf.VerifyToken(context.Background(), bob, token), shared.ErrCSRFTokenMismatch)

	fresh, err := csrf.EnsureToken(context.Background(), bob)
	require.NoError(t, err)
	require.NotEqual(t, token, fresh)
	require.NoError(t, csrf.VerifyToken(context.Background(), bob, fresh))

	other := shared.NewCSRFManager("other-secret")
	require.ErrorIs(t, other.VerifyToken(context.Background(), alice, token), shared.ErrCSRFTokenMismatch)
}
