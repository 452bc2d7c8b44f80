package categories

// Category is a main category or, when it has a parent, a subcategory.
type Category struct {
	CategoryID          int64  `json:"categoryId"`
	CategoryName        string `json:"categoryName"`
	CategoryDescription string `json:"categoryDescription"`
	CategoryStatus      string `json:"categoryStatus,omitempty"`
	ParentCategoryID    *int64 `json:"parentCategoryId"`
	MainCategoryName    string `json:"mainCategoryName,omitempty"`
}

// IsSubCategory reports whether the category has a parent.
func (c Category) IsSubCategory() bool {
	return c.ParentCategoryID != nil && *c.ParentCategoryID > 0
}

// DisplayName prefers the category's own name over its main category.
func (c Category) DisplayName() string {
	if c.CategoryName != "" {
		return c.CategoryName
	}
	return c.MainCategoryName
}

// ShowsBoth reports whether a main category badge and a distinct subcategory
// badge are both shown.
func (c Category) ShowsBoth() bool {
	return c.MainCategoryName != "" && c.CategoryName != "" && c.MainCategoryName != c.CategoryName
}

// Active reports whether the status marks the category active.
func (c Category) Active() bool { return c.CategoryStatus == "ACTIVE" }

// Input is the create and update payload.
type Input struct {
	CategoryName        string `json:"categoryName" validate:"required,max=100"`
	CategoryDescription string `json:"categoryDescription" validate:"max=500"`
	ParentCategoryID    *int64 `json:"parentCategoryId"`
	IsSubCategory       bool   `json:"-"`
}

// dropdownRow accepts both the parent dropdown shape and the plain category
// shape returned by the backend.
type dropdownRow struct {
	CategoryID         int64  `json:"categoryId"`
	CategoryName       string `json:"categoryName"`
	ParentCategoryID   int64  `json:"parentCategoryId"`
	ParentCategoryName string `json:"parentCategoryName"`
}

func (r dropdownRow) option() (int64, string) {
	if r.ParentCategoryID > 0 && r.CategoryID == 0 {
		return r.ParentCategoryID, r.ParentCategoryName
	}
	return r.CategoryID, r.CategoryName
}
