package employees

import (
	"strings"

	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

var labels = map[string]string{
	"employeePrefix":      "Prefix",
	"employeeFirstName":   "First name",
	"employeeLastName":    "Last name",
	"employeeNIC":         "NIC",
	"employeeDOB":         "Date of birth",
	"employeeGender":      "Gender",
	"employeeEmail":       "Email",
	"employeePhoneNumber": "Phone number",
	"Role":                "Role",
	"employmentDate":      "Employment date",
	"salary":              "Salary",
}

func (s *Service) validate(in Input) internalShared.FieldErrors {
	errs := internalShared.ValidateStruct(in, labels)
	if in.Image != nil && !strings.HasPrefix(in.Image.ContentType, "image/") {
		errs.Add("employeeImage", "Employee photo must be an image file")
	}
	return errs
}
