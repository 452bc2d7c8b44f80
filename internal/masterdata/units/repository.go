package units

import (
	"context"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/platform/cache"
)

// Repository is the unit side of the backend.
type Repository interface {
	List(ctx context.Context) ([]Unit, error)
	Get(ctx context.Context, id int64) (Unit, error)
	Create(ctx context.Context, in Input) error
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
	BaseOptions(ctx context.Context) ([]cascade.Option, error)
	OtherOptions(ctx context.Context, baseID int64) ([]cascade.Option, error)
	SideOptions(ctx context.Context) ([]cascade.Option, error)
}

type repository struct {
	store *shared.Store[Unit]
}

// NewRepository returns the backend repository.
func NewRepository(client *backend.Client, c *cache.Versioned) Repository {
	return &repository{store: shared.NewStore[Unit](client, c, shared.ResourceUnit, shared.ResourceMaterial)}
}

func (r *repository) List(ctx context.Context) ([]Unit, error) { return r.store.List(ctx) }

func (r *repository) Get(ctx context.Context, id int64) (Unit, error) { return r.store.Get(ctx, id) }

func (r *repository) Create(ctx context.Context, in Input) error {
	_, err := r.store.Create(ctx, backend.JSON(in))
	return err
}

func (r *repository) Update(ctx context.Context, id int64, in Input) error {
	_, err := r.store.Update(ctx, id, backend.JSON(in))
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error { return r.store.Delete(ctx, id) }

func (r *repository) BaseOptions(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "base", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.ListAt[baseRow](ctx, r.store.Client(), shared.ResourceUnit, "base_drop_down", shared.ResourceUnit, "baseUnitDropDown")
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, baseRow.option), nil
	})
}

func (r *repository) OtherOptions(ctx context.Context, baseID int64) ([]cascade.Option, error) {
	if err := shared.CheckID(baseID); err != nil {
		return nil, err
	}
	return r.store.Options(ctx, "other", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.ListAt[otherRow](ctx, r.store.Client(), shared.ResourceUnit, "other_drop_down", shared.ResourceUnit, "otherUnitDropDown", backend.ID(baseID))
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, otherRow.option), nil
	}, backend.ID(baseID))
}

func (r *repository) SideOptions(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "side_drop", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.SideDrop[sideDropRow](ctx, r.store.Client(), shared.ResourceUnit)
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, sideDropRow.option), nil
	})
}
