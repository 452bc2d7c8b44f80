package customers

import (
	"context"
	"strings"

	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

// Service applies customer rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds the customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if err := shared.CheckID(id); err != nil {
		return Customer{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) error {
	in = normalize(in)
	if err := validate(in).Err(); err != nil {
		return err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	if err := shared.CheckID(id); err != nil {
		return err
	}
	in = normalize(in)
	if err := validate(in).Err(); err != nil {
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

// Options lists customers for the inquiry form and the detail side panel.
func (s *Service) Options(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.Options(ctx)
}

// WarmDropdowns loads the customer dropdown into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.Options(ctx)
	return err
}

func normalize(in Input) Input {
	in.CustomerEmail = strings.ToLower(in.CustomerEmail)
	return in
}

var labels = map[string]string{
	"customerPrefix":      "Prefix",
	"customerFirstName":   "First name",
	"customerLastName":    "Last name",
	"customerEmail":       "Email",
	"customerPhoneNumber": "Phone number",
	"city":                "City",
	"zipCode":             "Zip code",
}

func validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	for field, upload := range in.uploads() {
		if upload == nil {
			continue
		}
		if upload.ContentType != "application/pdf" && !strings.HasPrefix(upload.ContentType, "image/") {
			errs.Add(field, field+" document must be a PDF or an image")
		}
	}
	return errs
}

// Fields are the searchable values of a customer.
func Fields(c Customer) []string {
	return []string{c.CustomerFirstName, c.CustomerLastName, c.CustomerEmail, c.CustomerPhoneNumber, c.City}
}
