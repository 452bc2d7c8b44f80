package units

import "strconv"

// Unit is a unit of measure. A unit with a base unit is a multiple of it.
type Unit struct {
	UnitID               int64    `json:"unitId"`
	UnitName             string   `json:"unitName"`
	UnitShortName        string   `json:"unitShortName"`
	UnitAllowDecimal     bool     `json:"unitAllowDecimal"`
	BaseUnitID           *int64   `json:"baseUnitId"`
	BaseUnitName         string   `json:"baseUnitName,omitempty"`
	UnitConversionFactor *float64 `json:"unitConversionFactor"`
}

// IsMultiple reports whether the unit is defined in terms of a base unit.
func (u Unit) IsMultiple() bool { return u.BaseUnitID != nil && *u.BaseUnitID > 0 }

// Conversion renders "1 box = 12 pcs" style text for multiples.
func (u Unit) Conversion() string {
	if !u.IsMultiple() || u.UnitConversionFactor == nil {
		return ""
	}
	base := u.BaseUnitName
	if base == "" {
		base = "#" + strconv.FormatInt(*u.BaseUnitID, 10)
	}
	return "1 " + u.UnitShortName + " = " + strconv.FormatFloat(*u.UnitConversionFactor, 'f', -1, 64) + " " + base
}

// Input is the create and update payload.
type Input struct {
	UnitName             string   `json:"unitName" validate:"required,max=50"`
	UnitShortName        string   `json:"unitShortName" validate:"required,max=10"`
	UnitAllowDecimal     bool     `json:"unitAllowDecimal"`
	BaseUnitID           *int64   `json:"baseUnitId"`
	UnitConversionFactor *float64 `json:"unitConversionFactor"`
	IsMultiple           bool     `json:"-"`
}

type baseRow struct {
	BaseUnitID   int64  `json:"baseUnitId"`
	BaseUnitName string `json:"baseUnitName"`
}

func (r baseRow) option() (int64, string) { return r.BaseUnitID, r.BaseUnitName }

type otherRow struct {
	OtherUnitID   int64  `json:"otherUnitId"`
	OtherUnitName string `json:"otherUnitName"`
}

func (r otherRow) option() (int64, string) { return r.OtherUnitID, r.OtherUnitName }

type sideDropRow struct {
	UnitID   int64  `json:"unitId"`
	UnitName string `json:"unitName"`
}

func (r sideDropRow) option() (int64, string) { return r.UnitID, r.UnitName }
