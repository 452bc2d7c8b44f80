package units

import (
	"context"

	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
)

// Service applies unit rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds the unit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Unit, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if err := shared.CheckID(id); err != nil {
		return Unit{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a unit. A single unit is sent without a base
// unit or conversion factor.
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
	if in.BaseUnitID != nil && *in.BaseUnitID == id {
		errs.Add("baseUnitId", "A unit cannot be its own base unit")
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

// BaseOptions lists the units other units can be multiples of.
func (s *Service) BaseOptions(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.BaseOptions(ctx)
}

// OtherOptions lists the multiples of a base unit.
func (s *Service) OtherOptions(ctx context.Context, baseID int64) ([]cascade.Option, error) {
	return s.repo.OtherOptions(ctx, baseID)
}

func (s *Service) SideOptions(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.SideOptions(ctx)
}

// WarmDropdowns loads the base unit dropdown into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.BaseOptions(ctx)
	return err
}

func normalize(in Input) Input {
	if !in.IsMultiple {
		in.BaseUnitID = nil
		in.UnitConversionFactor = nil
	}
	return in
}

// Fields are the searchable values of a unit.
func Fields(u Unit) []string {
	return []string{u.UnitName, u.UnitShortName, u.BaseUnitName}
}
