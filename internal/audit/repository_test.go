package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/internal/backend"
)

func TestBackendRepositoryPaths(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /activityLog/Brand/4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"actLogTimestamp":"2024-01-01","actLogAction":"CREATE","actLogPerformedBy":"admin","actLogDetails":""}]`))
	})
	mux.HandleFunc("GET /activityLog/Brand", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"item":"Acme","action":"UPDATE","user":"admin","date":"2024-01-02"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	repo := NewRepository(client)

	entries, err := repo.Timeline(context.Background(), EntityBrand, 4)
	require.NoError(t, err)
	require.Equal(t, []Entry{{Timestamp: "2024-01-01", Action: "CREATE", PerformedBy: "admin"}}, entries)

	recent, err := repo.Recent(context.Background(), EntityBrand)
	require.NoError(t, err)
	require.Equal(t, []RecentItem{{Item: "Acme", Action: "UPDATE", User: "admin", Date: "2024-01-02"}}, recent)
}
