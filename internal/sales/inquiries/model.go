package inquiries

import "strings"

// Inquiry is a customer project enquiry awaiting a quotation.
type Inquiry struct {
	InquiryID         int64  `json:"inquiryId"`
	QuotationNumber   string `json:"quotationNumber"`
	ProjectName       string `json:"projectName"`
	ProjectType       string `json:"projectType"`
	InquiryType       string `json:"inquiryType"`
	InquiryStatus     string `json:"inquiryStatus"`
	CustomerID        *int64 `json:"customerId"`
	CustomerName      string `json:"customerName"`
	SalesPersonID     *int64 `json:"salesPersonId,omitempty"`
	SalesPersonName   string `json:"salesPersonName"`
	EstimatorID       *int64 `json:"estimatorId,omitempty"`
	EstimatorName     string `json:"estimatorName"`
	ProjectReturnDate string `json:"projectReturnDate"`
	Notes             string `json:"notes"`
}

// Status returns the inquiry status, PENDING when the backend sent none.
func (i Inquiry) Status() string {
	if i.InquiryStatus == "" {
		return "PENDING"
	}
	return strings.ToUpper(i.InquiryStatus)
}

// StatusClass returns the badge colour of the status.
func (i Inquiry) StatusClass() string { return StatusClass(i.InquiryStatus) }

// Label identifies the inquiry in notifications.
func (i Inquiry) Label() string {
	if i.QuotationNumber != "" {
		return i.QuotationNumber
	}
	return i.ProjectName
}

// StatusClass maps an inquiry status to its badge colour.
func StatusClass(status string) string {
	switch strings.ToUpper(status) {
	case "ACTIVE", "APPROVED", "COMPLETED":
		return "badge--green"
	case "PENDING", "IN_PROGRESS":
		return "badge--yellow"
	case "REJECTED", "CANCELLED":
		return "badge--red"
	case "DRAFT":
		return "badge--gray"
	default:
		return "badge--blue"
	}
}

type sideDropRow struct {
	InquiryID       int64  `json:"inquiryId"`
	ProjectName     string `json:"projectName"`
	QuotationNumber string `json:"quotationNumber"`
}

func (r sideDropRow) option() (int64, string) {
	if r.QuotationNumber == "" {
		return r.InquiryID, r.ProjectName
	}
	return r.InquiryID, r.ProjectName + " (" + r.QuotationNumber + ")"
}
