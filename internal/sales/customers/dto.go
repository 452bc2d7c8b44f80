package customers

import "github.com/synexis/synexis-admin/internal/backend"

// Prefixes are the accepted name prefixes.
var Prefixes = []string{"Mr", "Ms", "Miss", "Mrs", "Mx", "Dr", "Prof"}

// Document form fields.
const (
	FieldBRC  = "BRC"
	FieldVAT  = "VAT"
	FieldSVAT = "SVAT"
)

// Input is the create and update form.
type Input struct {
	CustomerPrefix      string          `json:"customerPrefix" validate:"omitempty,oneof=Mr Ms Miss Mrs Mx Dr Prof"`
	CustomerFirstName   string          `json:"customerFirstName" validate:"required,max=100"`
	CustomerLastName    string          `json:"customerLastName" validate:"max=100"`
	CustomerEmail       string          `json:"customerEmail" validate:"required,email"`
	CustomerPhoneNumber string          `json:"customerPhoneNumber" validate:"required,max=20"`
	City                string          `json:"city" validate:"max=100"`
	ZipCode             string          `json:"zipCode" validate:"max=20"`
	BRC                 *backend.Upload `json:"-"`
	VAT                 *backend.Upload `json:"-"`
	SVAT                *backend.Upload `json:"-"`
}

func (in Input) uploads() map[string]*backend.Upload {
	return map[string]*backend.Upload{FieldBRC: in.BRC, FieldVAT: in.VAT, FieldSVAT: in.SVAT}
}

// multipart encodes the form the way the backend expects it. Documents that
// were not re-uploaded are left out so the stored ones are kept.
func (in Input) multipart() *backend.Multipart {
	return backend.NewMultipart().
		Field("customerPrefix", in.CustomerPrefix).
		Field("customerFirstName", in.CustomerFirstName).
		Field("customerLastName", in.CustomerLastName).
		Field("customerEmail", in.CustomerEmail).
		Field("customerPhoneNumber", in.CustomerPhoneNumber).
		Field("city", in.City).
		Field("zipCode", in.ZipCode).
		File(FieldBRC, in.BRC).
		File(FieldVAT, in.VAT).
		File(FieldSVAT, in.SVAT)
}
