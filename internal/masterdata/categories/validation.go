package categories

import (
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

var labels = map[string]string{
	"categoryName":        "Category name",
	"categoryDescription": "Description",
	"parentCategoryId":    "Parent category",
}

func (s *Service) validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	if in.IsSubCategory && in.ParentCategoryID == nil {
		errs.Add("parentCategoryId", "Parent category is required for a subcategory")
	}
	return errs
}
