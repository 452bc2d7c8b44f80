package materials

import (
	"context"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/platform/cache"
)

// Repository is the material side of the backend.
type Repository interface {
	List(ctx context.Context) ([]Material, error)
	Get(ctx context.Context, id int64) (Material, error)
	Create(ctx context.Context, in Input) error
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
	Image(ctx context.Context, id int64) (backend.Blob, error)
	SideOptions(ctx context.Context) ([]cascade.Option, error)
	CategoryOptions(ctx context.Context) ([]cascade.Option, error)
}

type repository struct {
	store *shared.Store[Material]
}

// NewRepository returns the backend repository.
func NewRepository(client *backend.Client, c *cache.Versioned) Repository {
	return &repository{store: shared.NewStore[Material](client, c, shared.ResourceMaterial)}
}

func (r *repository) List(ctx context.Context) ([]Material, error) { return r.store.List(ctx) }

func (r *repository) Get(ctx context.Context, id int64) (Material, error) {
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

func (r *repository) Image(ctx context.Context, id int64) (backend.Blob, error) {
	return r.store.Image(ctx, id)
}

func (r *repository) SideOptions(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "side_drop", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.SideDrop[sideDropRow](ctx, r.store.Client(), shared.ResourceMaterial)
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, sideDropRow.option), nil
	})
}

// CategoryOptions lists the main categories offered by the material form.
func (r *repository) CategoryOptions(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "categories", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.ListAt[categoryRow](ctx, r.store.Client(), shared.ResourceMaterial, "parent_drop_down", shared.ResourceMaterial, "parentCategoryDropDown")
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, categoryRow.option), nil
	})
}
