package employees

import (
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
)

// Employee is a staff member.
type Employee struct {
	EmployeeID          int64    `json:"employeeId"`
	EmployeePrefix      string   `json:"employeePrefix"`
	EmployeeFirstName   string   `json:"employeeFirstName"`
	EmployeeLastName    string   `json:"employeeLastName"`
	EmployeeEmail       string   `json:"employeeEmail"`
	EmployeePhoneNumber string   `json:"employeePhoneNumber"`
	EmployeeNIC         string   `json:"employeeNIC"`
	EmployeeGender      string   `json:"employeeGender"`
	EmployeeDOB         string   `json:"employeeDOB"`
	EmploymentDate      string   `json:"employmentDate"`
	AddressLine1        string   `json:"addressLine1"`
	AddressLine2        string   `json:"addressLine2"`
	City                string   `json:"city"`
	ZipCode             string   `json:"zipCode"`
	Role                string   `json:"Role"`
	Salary              *float64 `json:"salary"`
	Status              string   `json:"status"`
	DepartmentID        *int64   `json:"departmentId"`
	EmployeeImageURL    string   `json:"employeeImageUrl"`
}

// FullName joins prefix, first and last name.
func (e Employee) FullName() string {
	name := strings.TrimSpace(e.EmployeeFirstName + " " + e.EmployeeLastName)
	if e.EmployeePrefix == "" {
		return name
	}
	return e.EmployeePrefix + ". " + name
}

// HasImage reports whether the backend stores a photo of the employee.
func (e Employee) HasImage() bool { return e.EmployeeImageURL != "" }

// Active reports whether the status marks the employee active.
func (e Employee) Active() bool { return strings.EqualFold(e.Status, "ACTIVE") }

// RoleLabel returns the display name of the role.
func (e Employee) RoleLabel() string {
	for _, c := range Roles {
		if c.Value == e.Role {
			return c.Label
		}
	}
	return e.Role
}

// Choice is a fixed select option.
type Choice struct {
	Value string
	Label string
}

var (
	// Prefixes are the accepted name prefixes.
	Prefixes = []Choice{{"Mr", "Mr."}, {"Ms", "Ms."}, {"Miss", "Miss."}, {"Mrs", "Mrs."}, {"Mx", "Mx."}, {"Dr", "Dr."}, {"Prof", "Prof."}}
	// Genders are the accepted genders.
	Genders = []Choice{{"Male", "Male"}, {"Female", "Female"}, {"Other", "Other"}}
	// Roles are the accepted staff roles.
	Roles = []Choice{
		{"ESTIMATOR", "Estimator"},
		{"SALES_PERSON", "Sales Person"},
		{"SALES_MANAGER", "Sales Manager"},
		{"ACCOUNTANT", "Accountant"},
		{"DRAFTMAN", "Draftman"},
		{"INVENTORY_MANGER", "Inventory Manager"},
	}
)

// Input is the create and update form.
type Input struct {
	EmployeePrefix      string          `json:"employeePrefix" validate:"omitempty,oneof=Mr Ms Miss Mrs Mx Dr Prof"`
	EmployeeFirstName   string          `json:"employeeFirstName" validate:"required,max=100"`
	EmployeeLastName    string          `json:"employeeLastName" validate:"required,max=100"`
	EmployeeNIC         string          `json:"employeeNIC" validate:"required,max=20"`
	EmployeeDOB         string          `json:"employeeDOB" validate:"omitempty,datetime=2006-01-02"`
	EmployeeGender      string          `json:"employeeGender" validate:"omitempty,oneof=Male Female Other"`
	EmployeeEmail       string          `json:"employeeEmail" validate:"required,email"`
	EmployeePhoneNumber string          `json:"employeePhoneNumber" validate:"required,max=20"`
	AddressLine1        string          `json:"addressLine1" validate:"max=200"`
	AddressLine2        string          `json:"addressLine2" validate:"max=200"`
	City                string          `json:"city" validate:"max=100"`
	ZipCode             string          `json:"zipCode" validate:"max=20"`
	Role                string          `json:"Role" validate:"omitempty,oneof=ESTIMATOR SALES_PERSON SALES_MANAGER ACCOUNTANT DRAFTMAN INVENTORY_MANGER"`
	EmploymentDate      string          `json:"employmentDate" validate:"omitempty,datetime=2006-01-02"`
	Salary              *float64        `json:"salary" validate:"omitempty,gte=0"`
	Image               *backend.Upload `json:"-"`
}

// multipart encodes the form the way the backend expects it.
func (in Input) multipart() *backend.Multipart {
	return backend.NewMultipart().
		Field("employeePrefix", in.EmployeePrefix).
		Field("employeeFirstName", in.EmployeeFirstName).
		Field("employeeLastName", in.EmployeeLastName).
		Field("employeeNIC", in.EmployeeNIC).
		Field("employeeDOB", in.EmployeeDOB).
		Field("employeeGender", in.EmployeeGender).
		Field("employeeEmail", in.EmployeeEmail).
		Field("employeePhoneNumber", in.EmployeePhoneNumber).
		Field("addressLine1", in.AddressLine1).
		Field("addressLine2", in.AddressLine2).
		Field("city", in.City).
		Field("zipCode", in.ZipCode).
		Field("Role", in.Role).
		OptionalField("employmentDate", in.EmploymentDate).
		FloatField("salary", in.Salary).
		File("employeeImage", in.Image)
}

type sideDropRow struct {
	EmployeeID        int64  `json:"employeeId"`
	EmployeeName      string `json:"employeeName"`
	EmployeeFirstName string `json:"employeeFirstName"`
	EmployeeLastName  string `json:"employeeLastName"`
}

func (r sideDropRow) option() (int64, string) {
	if r.EmployeeName != "" {
		return r.EmployeeID, r.EmployeeName
	}
	return r.EmployeeID, strings.TrimSpace(r.EmployeeFirstName + " " + r.EmployeeLastName)
}
