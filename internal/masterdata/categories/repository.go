package categories

import (
	"context"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	"github.com/synexis/synexis-admin/internal/platform/cache"
)

// Repository is the category side of the backend.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, in Input) error
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
	ParentOptions(ctx context.Context) ([]cascade.Option, error)
	SubOptions(ctx context.Context, parentID int64) ([]cascade.Option, error)
}

type repository struct {
	store *shared.Store[Category]
}

// NewRepository returns the backend repository. Category writes also
// invalidate cached materials, which embed category names.
func NewRepository(client *backend.Client, c *cache.Versioned) Repository {
	return &repository{
		store: shared.NewStore[Category](client, c, shared.ResourceCategory, shared.ResourceMaterial).ListFrom("table"),
	}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	return r.store.List(ctx)
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	return r.store.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, in Input) error {
	_, err := r.store.Create(ctx, backend.JSON(in))
	return err
}

func (r *repository) Update(ctx context.Context, id int64, in Input) error {
	_, err := r.store.Update(ctx, id, backend.JSON(in))
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

func (r *repository) ParentOptions(ctx context.Context) ([]cascade.Option, error) {
	return r.store.Options(ctx, "parents", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.ListAt[dropdownRow](ctx, r.store.Client(), shared.ResourceCategory, "parent_drop_down", shared.ResourceCategory, "parentCategoryDropDown")
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, dropdownRow.option), nil
	})
}

func (r *repository) SubOptions(ctx context.Context, parentID int64) ([]cascade.Option, error) {
	if err := shared.CheckID(parentID); err != nil {
		return nil, err
	}
	return r.store.Options(ctx, "subs", func(ctx context.Context) ([]cascade.Option, error) {
		rows, err := backend.ListAt[dropdownRow](ctx, r.store.Client(), shared.ResourceCategory, "sub_drop_down", shared.ResourceCategory, "subCategoryDropDown", backend.ID(parentID))
		if err != nil {
			return nil, err
		}
		return shared.ToOptions(rows, dropdownRow.option), nil
	}, backend.ID(parentID))
}
