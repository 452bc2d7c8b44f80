package categories

import (
	"context"

	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
)

// Service applies category rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds the category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if err := shared.CheckID(id); err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a category. A main category never carries a
// parent.
func (s *Service) Create(ctx context.Context, in Input) error {
	in = normalize(in)
	if err := s.validate(in).Err(); err != nil {
		return err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	if err := shared.CheckID(id); err != nil {
		return err
	}
	in = normalize(in)
	errs := s.validate(in)
	if in.ParentCategoryID != nil && *in.ParentCategoryID == id {
		errs.Add("parentCategoryId", "A category cannot be its own parent")
	}
	if err := errs.Err(); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := shared.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ParentOptions lists the main categories.
func (s *Service) ParentOptions(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.ParentOptions(ctx)
}

// SubOptions lists the subcategories of a main category.
func (s *Service) SubOptions(ctx context.Context, parentID int64) ([]cascade.Option, error) {
	return s.repo.SubOptions(ctx, parentID)
}

// SideOptions lists every category for the detail page side panel.
func (s *Service) SideOptions(ctx context.Context) ([]cascade.Option, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return shared.ToOptions(list, func(c Category) (int64, string) { return c.CategoryID, c.DisplayName() }), nil
}

// WarmDropdowns loads the parent dropdown into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.ParentOptions(ctx)
	return err
}

func normalize(in Input) Input {
	if !in.IsSubCategory {
		in.ParentCategoryID = nil
	}
	return in
}

// Fields are the searchable values of a category.
func Fields(c Category) []string {
	return []string{c.CategoryName, c.MainCategoryName, c.CategoryDescription}
}
