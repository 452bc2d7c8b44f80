package employees

import (
	"context"
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
)

// Service applies employee rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds the employee service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	if err := shared.CheckID(id); err != nil {
		return Employee{}, err
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

// Options lists employees for dropdowns and the detail side panel.
func (s *Service) Options(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.Options(ctx)
}

// WarmDropdowns loads the employee dropdown into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.Options(ctx)
	return err
}

func normalize(in Input) Input {
	in.EmployeeEmail = strings.ToLower(in.EmployeeEmail)
	in.EmployeeNIC = strings.ToUpper(in.EmployeeNIC)
	return in
}

// Fields are the searchable values of an employee.
func Fields(e Employee) []string {
	return []string{e.EmployeeFirstName, e.EmployeeLastName, e.EmployeeEmail, e.EmployeePhoneNumber, e.EmployeeNIC, e.City}
}
