package materials

import "github.com/synexis/synexis-admin/internal/backend"

// Material is a stocked item.
type Material struct {
	MaterialID            int64    `json:"materialId"`
	MaterialName          string   `json:"materialName"`
	MaterialSKU           string   `json:"materialSKU"`
	MaterialDescription   string   `json:"materialDescription"`
	MaterialPartNumber    string   `json:"materialPartNumber"`
	MaterialInventoryType string   `json:"materialInventoryType"`
	MaterialType          string   `json:"materialType"`
	BrandID               *int64   `json:"brandId"`
	BrandName             string   `json:"brandName,omitempty"`
	CategoryID            *int64   `json:"categoryId"`
	CategoryName          string   `json:"categoryName,omitempty"`
	SubCategoryID         *int64   `json:"subCategoryId"`
	SubCategoryName       string   `json:"subCategoryName,omitempty"`
	MaterialMake          string   `json:"materialMake"`
	MaterialPurchasePrice *float64 `json:"materialPurchasePrice"`
	MaterialMarketPrice   *float64 `json:"materialMarketPrice"`
	AlertQuantity         *float64 `json:"alertQuantity"`
	BaseUnitID            *int64   `json:"baseUnitId"`
	BaseUnitName          string   `json:"baseUnitName,omitempty"`
	OtherUnitID           *int64   `json:"otherUnitId"`
	OtherUnitName         string   `json:"otherUnitName,omitempty"`
	MaterialForUse        bool     `json:"materialForUse"`
	MaterialStatus        string   `json:"materialStatus,omitempty"`
	MaterialImageURL      string   `json:"materialImageUrl"`
}

// HasImage reports whether the backend stores a picture of the material.
func (m Material) HasImage() bool { return m.MaterialImageURL != "" }

// Active reports whether the status marks the material active.
func (m Material) Active() bool { return m.MaterialStatus == "ACTIVE" }

// InventoryLabel returns the display name of the inventory type.
func (m Material) InventoryLabel() string {
	return choiceLabel(InventoryTypes, m.MaterialInventoryType)
}

// TypeLabel returns the display name of the material type.
func (m Material) TypeLabel() string { return choiceLabel(MaterialTypes, m.MaterialType) }

// Choice is a fixed select option.
type Choice struct {
	Value string
	Label string
}

// InventoryTypes are the accepted inventory types.
var InventoryTypes = []Choice{
	{"ELECTRICAL", "Electrical"},
	{"MECHANICAL", "Mechanical"},
}

// MaterialTypes are the accepted material types.
var MaterialTypes = []Choice{
	{"SWITCH_GEAR_COMPONENTS", "Switch Gear Component"},
	{"CONTROL_ACCESSORIES", "Control Accessories"},
	{"BUSBAR", "Bus Bar"},
	{"WIRING", "Wiring"},
	{"OTHER_ACCESSORIES", "Other Accessories"},
	{"ENCLOSURE", "Enclosure"},
}

func choiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// Input is the create and update form.
type Input struct {
	MaterialName          string          `json:"materialName" validate:"required,max=150"`
	MaterialSKU           string          `json:"materialSKU" validate:"required,max=64"`
	MaterialDescription   string          `json:"materialDescription" validate:"max=1000"`
	MaterialPartNumber    string          `json:"materialPartNumber" validate:"max=64"`
	MaterialInventoryType string          `json:"materialInventoryType" validate:"omitempty,oneof=ELECTRICAL MECHANICAL"`
	MaterialType          string          `json:"materialType" validate:"omitempty,oneof=SWITCH_GEAR_COMPONENTS CONTROL_ACCESSORIES BUSBAR WIRING OTHER_ACCESSORIES ENCLOSURE"`
	BrandID               *int64          `json:"brandId" validate:"required"`
	CategoryID            *int64          `json:"categoryId" validate:"required"`
	SubCategoryID         *int64          `json:"subCategoryId"`
	MaterialMake          string          `json:"materialMake" validate:"max=100"`
	MaterialPurchasePrice *float64        `json:"materialPurchasePrice" validate:"omitempty,gte=0"`
	MaterialMarketPrice   *float64        `json:"materialMarketPrice" validate:"omitempty,gte=0"`
	AlertQuantity         *float64        `json:"alertQuantity" validate:"omitempty,gte=0"`
	BaseUnitID            *int64          `json:"baseUnitId" validate:"required"`
	OtherUnitID           *int64          `json:"otherUnitId"`
	MaterialForUse        bool            `json:"materialForUse"`
	Image                 *backend.Upload `json:"-"`
}

func zero(v *float64) *float64 {
	if v == nil {
		n := 0.0
		return &n
	}
	return v
}

// multipart encodes the form the way the backend expects it. Missing prices
// and quantities are sent as zero.
func (in Input) multipart() *backend.Multipart {
	return backend.NewMultipart().
		Field("materialName", in.MaterialName).
		Field("materialSKU", in.MaterialSKU).
		Field("materialDescription", in.MaterialDescription).
		Field("materialPartNumber", in.MaterialPartNumber).
		Field("materialInventoryType", in.MaterialInventoryType).
		Field("materialType", in.MaterialType).
		IntField("brandId", in.BrandID).
		IntField("categoryId", in.CategoryID).
		IntField("subCategoryId", in.SubCategoryID).
		Field("materialMake", in.MaterialMake).
		FloatField("materialPurchasePrice", zero(in.MaterialPurchasePrice)).
		FloatField("materialMarketPrice", zero(in.MaterialMarketPrice)).
		FloatField("alertQuantity", zero(in.AlertQuantity)).
		IntField("baseUnitId", in.BaseUnitID).
		IntField("otherUnitId", in.OtherUnitID).
		BoolField("materialForUse", in.MaterialForUse).
		File("materialImage", in.Image)
}

type sideDropRow struct {
	MaterialID   int64  `json:"materialId"`
	MaterialName string `json:"materialName"`
}

func (r sideDropRow) option() (int64, string) { return r.MaterialID, r.MaterialName }

type categoryRow struct {
	CategoryID         int64  `json:"categoryId"`
	CategoryName       string `json:"categoryName"`
	ParentCategoryID   int64  `json:"parentCategoryId"`
	ParentCategoryName string `json:"parentCategoryName"`
}

func (r categoryRow) option() (int64, string) {
	if r.CategoryID == 0 {
		return r.ParentCategoryID, r.ParentCategoryName
	}
	return r.CategoryID, r.CategoryName
}
