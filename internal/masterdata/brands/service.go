package brands

import (
	"context"
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
)

// Service applies brand rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds the brand service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Brand, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Brand, error) {
	if err := shared.CheckID(id); err != nil {
		return Brand{}, err
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

// Options lists brands for dropdowns and the detail side panel.
func (s *Service) Options(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.Options(ctx)
}

// WarmDropdowns loads the brand dropdown into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.Options(ctx)
	return err
}

// normalize prefixes a bare website host with https.
func normalize(in Input) Input {
	if in.BrandWebsite != "" && !strings.Contains(in.BrandWebsite, "://") {
		in.BrandWebsite = "https://" + in.BrandWebsite
	}
	return in
}

// Fields are the searchable values of a brand.
func Fields(b Brand) []string {
	return []string{b.BrandName, b.BrandCountry, b.BrandDescription}
}
