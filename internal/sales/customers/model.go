package customers

import "strings"

// Customer is a buyer with its registration documents.
type Customer struct {
	CustomerID          int64  `json:"customerId"`
	CustomerPrefix      string `json:"customerPrefix"`
	CustomerFirstName   string `json:"customerFirstName"`
	CustomerLastName    string `json:"customerLastName"`
	CustomerEmail       string `json:"customerEmail"`
	CustomerPhoneNumber string `json:"customerPhoneNumber"`
	City                string `json:"city"`
	ZipCode             string `json:"zipCode"`
	BRCDocURL           string `json:"brcdocUrl"`
	VATDocURL           string `json:"vatdocUrl"`
	SVATDocURL          string `json:"svatdocUrl"`
}

// FullName joins prefix, first and last name.
func (c Customer) FullName() string {
	name := strings.TrimSpace(c.CustomerFirstName + " " + c.CustomerLastName)
	if c.CustomerPrefix == "" {
		return name
	}
	return c.CustomerPrefix + ". " + name
}

// Document is one uploaded registration file.
type Document struct {
	Label string
	URL   string
}

// Documents lists the uploaded files in display order.
func (c Customer) Documents() []Document {
	var out []Document
	for _, d := range []Document{{"BRC", c.BRCDocURL}, {"VAT", c.VATDocURL}, {"SVAT", c.SVATDocURL}} {
		if d.URL != "" {
			out = append(out, d)
		}
	}
	return out
}

type sideDropRow struct {
	CustomerID        int64  `json:"customerId"`
	CustomerName      string `json:"customerName"`
	CustomerFirstName string `json:"customerFirstName"`
	CustomerLastName  string `json:"customerLastName"`
}

func (r sideDropRow) option() (int64, string) {
	if r.CustomerName != "" {
		return r.CustomerID, r.CustomerName
	}
	return r.CustomerID, strings.TrimSpace(r.CustomerFirstName + " " + r.CustomerLastName)
}
