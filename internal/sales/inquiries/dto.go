package inquiries

// Statuses are the inquiry lifecycle states offered by the form.
var Statuses = []string{"DRAFT", "PENDING", "IN_PROGRESS", "ACTIVE", "APPROVED", "COMPLETED", "REJECTED", "CANCELLED"}

// InquiryTypes and ProjectTypes are the fixed classifications.
var (
	InquiryTypes = []string{"TENDER", "DIRECT", "REPEAT"}
	ProjectTypes = []string{"RESIDENTIAL", "COMMERCIAL", "INDUSTRIAL", "GOVERNMENT"}
)

// Input is the JSON create and update payload.
type Input struct {
	QuotationNumber   string `json:"quotationNumber" validate:"max=50"`
	ProjectName       string `json:"projectName" validate:"required,max=150"`
	ProjectType       string `json:"projectType" validate:"omitempty,oneof=RESIDENTIAL COMMERCIAL INDUSTRIAL GOVERNMENT"`
	InquiryType       string `json:"inquiryType" validate:"omitempty,oneof=TENDER DIRECT REPEAT"`
	InquiryStatus     string `json:"inquiryStatus" validate:"omitempty,oneof=DRAFT PENDING IN_PROGRESS ACTIVE APPROVED COMPLETED REJECTED CANCELLED"`
	CustomerID        *int64 `json:"customerId" validate:"required"`
	SalesPersonID     *int64 `json:"salesPersonId"`
	EstimatorID       *int64 `json:"estimatorId"`
	ProjectReturnDate string `json:"projectReturnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             string `json:"notes" validate:"max=2000"`
}
