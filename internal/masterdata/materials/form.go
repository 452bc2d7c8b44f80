package materials

import (
	"context"
	"errors"

	"github.com/synexis/synexis-admin/internal/cascade"
)

// Cascade field keys. They match the form field names.
const (
	FieldBrand       = "brandId"
	FieldCategory    = "categoryId"
	FieldSubCategory = "subCategoryId"
	FieldBaseUnit    = "baseUnitId"
	FieldOtherUnit   = "otherUnitId"
)

var loadFailures = map[string]string{
	FieldBrand:       "Failed to load brands. Please try again.",
	FieldCategory:    "Failed to load categories. Please try again.",
	FieldSubCategory: "Failed to load subcategories. Please try again.",
	FieldBaseUnit:    "Failed to load base units. Please try again.",
	FieldOtherUnit:   "Failed to load other units. Please try again.",
}

// LoadFailure returns the notification shown when the options of a field
// could not be fetched.
func LoadFailure(key string) string {
	if msg, ok := loadFailures[key]; ok {
		return msg
	}
	return "Failed to load options. Please try again."
}

func root(load func(ctx context.Context) ([]cascade.Option, error)) cascade.Fetcher {
	return func(ctx context.Context, _ *int64) ([]cascade.Option, error) {
		return load(ctx)
	}
}

func child(load func(ctx context.Context, parent int64) ([]cascade.Option, error)) cascade.Fetcher {
	return func(ctx context.Context, parent *int64) ([]cascade.Option, error) {
		if parent == nil {
			return []cascade.Option{}, nil
		}
		return load(ctx, *parent)
	}
}

// NewForm builds the three selection chains of the material form: brand,
// category then subcategory, base unit then other unit.
func (s *Service) NewForm(cfg cascade.Config) (*cascade.Form, error) {
	return cascade.NewForm(cfg,
		cascade.Chain{
			{Key: FieldBrand, Label: "Brand", Fetch: root(s.lookups.Brands)},
		},
		cascade.Chain{
			{Key: FieldCategory, Label: "Category", Fetch: root(s.repo.CategoryOptions)},
			{Key: FieldSubCategory, Label: "Sub Category", Fetch: child(s.lookups.SubCategories)},
		},
		cascade.Chain{
			{Key: FieldBaseUnit, Label: "Base Unit", Fetch: root(s.lookups.BaseUnits)},
			{Key: FieldOtherUnit, Label: "Other Unit", Fetch: child(s.lookups.OtherUnits)},
		},
	)
}

// Preset selects the values of in on a mounted form, parents first, so the
// dependent option lists are fetched for them. Children of an empty parent
// are skipped.
func Preset(form *cascade.Form, in Input) error {
	for _, step := range []struct {
		key   string
		value *int64
	}{
		{FieldBrand, in.BrandID},
		{FieldCategory, in.CategoryID},
		{FieldSubCategory, in.SubCategoryID},
		{FieldBaseUnit, in.BaseUnitID},
		{FieldOtherUnit, in.OtherUnitID},
	} {
		if step.value == nil {
			continue
		}
		err := form.SetFieldValue(step.key, step.value)
		if err != nil && !errors.Is(err, cascade.ErrParentUnset) {
			return err
		}
	}
	return nil
}

// FieldMap indexes a snapshot by key for the templates.
func FieldMap(fields []cascade.Field) map[string]cascade.Field {
	out := make(map[string]cascade.Field, len(fields))
	for _, f := range fields {
		out[f.Key] = f
	}
	return out
}
