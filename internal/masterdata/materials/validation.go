package materials

import (
	"strings"

	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

var labels = map[string]string{
	"materialName":          "Material name",
	"materialSKU":           "SKU",
	"materialDescription":   "Description",
	"materialPartNumber":    "Part number",
	"materialInventoryType": "Inventory type",
	"materialType":          "Material type",
	"brandId":               "Brand",
	"categoryId":            "Category",
	"materialMake":          "Make",
	"materialPurchasePrice": "Purchase price",
	"materialMarketPrice":   "Market price",
	"alertQuantity":         "Alert quantity",
	"baseUnitId":            "Base unit",
}

func (s *Service) validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	if in.SubCategoryID != nil && in.CategoryID == nil {
		errs.Add("subCategoryId", "Select a category before its subcategory")
	}
	if in.OtherUnitID != nil && in.BaseUnitID == nil {
		errs.Add("otherUnitId", "Select a base unit before another unit")
	}
	if in.Image != nil && !strings.HasPrefix(in.Image.ContentType, "image/") {
		errs.Add("materialImage", "Material image must be an image file")
	}
	return errs
}
