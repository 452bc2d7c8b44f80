package customers

import (
	"context"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/platform/cache"
)

// Repository is the customer side of the backend.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, in Input) error
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
	Options(ctx context.Context) ([]cascade.Option, error)
}

type repository struct {
	store *shared.Store[Customer]
}

// NewRepository returns the backend repository. Customer writes also
// invalidate cached inquiries, which carry the customer name.
func NewRepository(client *backend.Client, c *cache.Versioned) Repository {
	return &repository{store: shared.NewStore[Customer](client, c, shared.ResourceCustomer, shared.ResourceInquiry)}
}

func (r *repository) List(ctx context.Context) ([]Customer, error) { return r.store.List(ctx) }

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	return r.store.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, in Input) error {
	_, err := r.store.Create(ctx, in.multipart())
	return err
}

func (r *repository) Update(ctx context.Context, id int64, in Input) error {
	_, err := r.store.Update(ctx, id, in.multipart())
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error { return r.store.Delete(ctx, id) }

func (r *repository) Options(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "side_drop", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.SideDrop[sideDropRow](ctx, r.store.Client(), shared.ResourceCustomer)
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, sideDropRow.option), nil
	})
}
