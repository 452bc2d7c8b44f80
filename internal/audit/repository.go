package audit

import (
	"context"

	"github.com/synexis/synexis-admin/internal/backend"
)

const resourceName = "activityLog"

type backendRepository struct {
	client *backend.Client
}

// NewRepository reads activity logs from the backend.
func NewRepository(client *backend.Client) Repository {
	return &backendRepository{client: client}
}

func (r *backendRepository) Timeline(ctx context.Context, entity string, id int64) ([]Entry, error) {
	return backend.ListAt[Entry](ctx, r.client, resourceName, "timeline", resourceName, entity, backend.ID(id))
}

func (r *backendRepository) Recent(ctx context.Context, entity string) ([]RecentItem, error) {
	return backend.ListAt[RecentItem](ctx, r.client, resourceName, "recent", resourceName, entity)
}
