package shared

// Backend resource names. They double as cache scopes.
const (
	ResourceCategory = "category"
	ResourceBrand    = "brand"
	ResourceUnit     = "unit"
	ResourceMaterial = "material"
	ResourceEmployee = "employee"
	ResourceCustomer = "customer"
	ResourceInquiry  = "inquiry"
)

// RecentLimit caps the recent activities side panel.
const RecentLimit = 20

// MaxUploadBytes bounds multipart form submissions.
const MaxUploadBytes = 10 << 20
