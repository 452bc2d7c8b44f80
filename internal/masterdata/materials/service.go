package materials

import (
	"context"
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
)

// Lookups are the option sources of the material form owned by other
// entities.
type Lookups struct {
	Brands        func(ctx context.Context) ([]cascade.Option, error)
	SubCategories func(ctx context.Context, categoryID int64) ([]cascade.Option, error)
	BaseUnits     func(ctx context.Context) ([]cascade.Option, error)
	OtherUnits    func(ctx context.Context, baseUnitID int64) ([]cascade.Option, error)
}

// Service applies material rules on top of the repository.
type Service struct {
	repo    Repository
	lookups Lookups
}

// NewService builds the material service.
func NewService(repo Repository, lookups Lookups) *Service {
	return &Service{repo: repo, lookups: lookups}
}

func (s *Service) List(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Material, error) {
	if err := shared.CheckID(id); err != nil {
		return Material{}, err
	}
	return s.repo.Get(ctx, id)
}

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
	if err := s.validate(in).Err(); err != nil {
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

func (s *Service) Image(ctx context.Context, id int64) (backend.Blob, error) {
	return s.repo.Image(ctx, id)
}

// SideOptions lists every material for the detail page side panel.
func (s *Service) SideOptions(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.SideOptions(ctx)
}

// WarmDropdowns loads the material side list and form categories into the
// cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	if _, err := s.repo.SideOptions(ctx); err != nil {
		return err
	}
	_, err := s.repo.CategoryOptions(ctx)
	return err
}

// normalize drops dependent selections whose parent is missing and trims the
// SKU.
func normalize(in Input) Input {
	in.MaterialSKU = strings.ToUpper(strings.TrimSpace(in.MaterialSKU))
	if in.CategoryID == nil {
		in.SubCategoryID = nil
	}
	if in.BaseUnitID == nil {
		in.OtherUnitID = nil
	}
	return in
}

// Fields are the searchable values of a material.
func Fields(m Material) []string {
	return []string{m.MaterialName, m.MaterialSKU, m.MaterialPartNumber, m.BrandName, m.CategoryName, m.MaterialMake}
}
