package audit

import "time"

// Entity names used by the backend activity log.
const (
	EntityCategory = "Category"
	EntityBrand    = "Brand"
	EntityUnit     = "Unit"
	EntityMaterial = "Material"
	EntityEmployee = "Employee"
	EntityCustomer = "Customer"
	EntityInquiry  = "Inquiry"
)

// Entities lists every entity with an activity log.
var Entities = []string{
	EntityCategory, EntityBrand, EntityUnit, EntityMaterial,
	EntityEmployee, EntityCustomer, EntityInquiry,
}

// Entry is one activity log record for a single entity.
type Entry struct {
	Timestamp   string `json:"actLogTimestamp"`
	Action      string `json:"actLogAction"`
	PerformedBy string `json:"actLogPerformedBy"`
	Details     string `json:"actLogDetails"`
}

// RecentItem is one row of the recent activities panel.
type RecentItem struct {
	Item   string `json:"item"`
	Action string `json:"action"`
	User   string `json:"user"`
	Date   string `json:"date"`
}

// TimelineFilters selects the log of one record.
type TimelineFilters struct {
	Entity   string
	ID       int64
	Action   string
	Actor    string
	Page     int
	PageSize int
}

// TimelineRow is a parsed activity log entry.
type TimelineRow struct {
	At      time.Time
	Raw     string
	Actor   string
	Action  string
	Details string
}

// PagingInfo keeps simple paging metadata.
type PagingInfo struct {
	Page     int
	HasNext  bool
	PageSize int
	PrevPage int
	NextPage int
}
