package inquiries

import (
	"context"
	"strings"

	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/masterdata/shared"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

// Lookups are the dropdowns of the inquiry form owned by other packages.
type Lookups struct {
	Customers func(ctx context.Context) ([]cascade.Option, error)
	Employees func(ctx context.Context) ([]cascade.Option, error)
}

// Service applies inquiry rules on top of the repository.
type Service struct {
	repo    Repository
	lookups Lookups
}

// NewService builds the inquiry service.
func NewService(repo Repository, lookups Lookups) *Service {
	return &Service{repo: repo, lookups: lookups}
}

func (s *Service) List(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Inquiry, error) {
	if err := shared.CheckID(id); err != nil {
		return Inquiry{}, err
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

// Options lists inquiries for the detail side panel.
func (s *Service) Options(ctx context.Context) ([]cascade.Option, error) {
	return s.repo.Options(ctx)
}

func (s *Service) Customers(ctx context.Context) ([]cascade.Option, error) {
	return s.lookups.Customers(ctx)
}

func (s *Service) Employees(ctx context.Context) ([]cascade.Option, error) {
	return s.lookups.Employees(ctx)
}

// WarmDropdowns loads the inquiry side list into the cache.
func (s *Service) WarmDropdowns(ctx context.Context) error {
	_, err := s.repo.Options(ctx)
	return err
}

func normalize(in Input) Input {
	in.QuotationNumber = strings.ToUpper(in.QuotationNumber)
	if in.InquiryStatus == "" {
		in.InquiryStatus = "PENDING"
	}
	return in
}

var labels = map[string]string{
	"quotationNumber":   "Quotation number",
	"projectName":       "Project name",
	"projectType":       "Project type",
	"inquiryType":       "Inquiry type",
	"inquiryStatus":     "Status",
	"customerId":        "Customer",
	"projectReturnDate": "Return date",
	"notes":             "Notes",
}

func validate(in Input) internalShared.FieldErrors {
	return internalShared.ValidateStruct(in, labels)
}

// Fields are the searchable values of an inquiry.
func Fields(i Inquiry) []string {
	return []string{i.QuotationNumber, i.ProjectName, i.CustomerName, i.InquiryType, i.ProjectType, i.SalesPersonName}
}
