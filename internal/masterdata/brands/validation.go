package brands

import (
	"strings"

	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

var labels = map[string]string{
	"brandName":        "Brand name",
	"brandCountry":     "Country",
	"brandWebsite":     "Website",
	"brandDescription": "Description",
}

func (s *Service) validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	if in.Image != nil && !strings.HasPrefix(in.Image.ContentType, "image/") {
		errs.Add("brandImage", "Brand image must be an image file")
	}
	return errs
}
