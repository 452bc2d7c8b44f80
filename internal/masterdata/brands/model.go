package brands

import "github.com/synexis/synexis-admin/internal/backend"

// Brand is a manufacturer of materials.
type Brand struct {
	BrandID          int64  `json:"brandId"`
	BrandName        string `json:"brandName"`
	BrandCountry     string `json:"brandCountry"`
	BrandWebsite     string `json:"brandWebsite"`
	BrandDescription string `json:"brandDescription"`
	BrandImageURL    string `json:"brandImageUrl"`
}

// HasImage reports whether the backend stores a logo for the brand.
func (b Brand) HasImage() bool { return b.BrandImageURL != "" }

// Input is the create and update form.
type Input struct {
	BrandName        string          `json:"brandName" validate:"required,max=100"`
	BrandCountry     string          `json:"brandCountry" validate:"max=100"`
	BrandWebsite     string          `json:"brandWebsite" validate:"omitempty,url"`
	BrandDescription string          `json:"brandDescription" validate:"max=1000"`
	Image            *backend.Upload `json:"-"`
}

// multipart encodes the form the way the backend expects it.
func (in Input) multipart() *backend.Multipart {
	return backend.NewMultipart().
		Field("brandName", in.BrandName).
		Field("brandCountry", in.BrandCountry).
		Field("brandDescription", in.BrandDescription).
		Field("brandWebsite", in.BrandWebsite).
		File("brandImage", in.Image)
}

type sideDropRow struct {
	BrandID   int64  `json:"brandId"`
	BrandName string `json:"brandName"`
}

func (r sideDropRow) option() (int64, string) { return r.BrandID, r.BrandName }
