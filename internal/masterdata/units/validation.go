package units

import (
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

var labels = map[string]string{
	"unitName":             "Unit name",
	"unitShortName":        "Short name",
	"baseUnitId":           "Base unit",
	"unitConversionFactor": "Conversion factor",
}

func (s *Service) validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	if !in.IsMultiple {
		return errs
	}
	if in.BaseUnitID == nil {
		errs.Add("baseUnitId", "Base unit is required for a multiple unit")
	}
	if in.UnitConversionFactor == nil || *in.UnitConversionFactor <= 0 {
		errs.Add("unitConversionFactor", "Conversion factor must be greater than 0")
	}
	return errs
}
