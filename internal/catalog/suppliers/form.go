package suppliers

import (
	"net/url"
	"strings"

	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
)

// Form binds Supplier to the edit form.
type Form struct{}

// Fields implements crudhttp.Form.
func (Form) Fields(s Supplier, _ crudhttp.Lookups) []crudhttp.Field {
	return []crudhttp.Field{
		{Name: "nombre", Label: "Name", Type: "text", Value: s.Name, Required: true},
		{Name: "telefono", Label: "Phone", Type: "tel", Value: s.Phone, Required: true},
		{Name: "email", Label: "Email", Type: "email", Value: s.Email},
		{Name: "ruc", Label: "Tax ID", Type: "text", Value: s.TaxID, Required: true},
	}
}

// Bind implements crudhttp.Form.
func (Form) Bind(values url.Values, s *Supplier) error {
	id, err := crudhttp.ParseID(values)
	if err != nil {
		return err
	}
	s.ID = id
	s.Name = strings.TrimSpace(values.Get("nombre"))
	s.Phone = strings.TrimSpace(values.Get("telefono"))
	s.Email = strings.TrimSpace(values.Get("email"))
	s.TaxID = strings.TrimSpace(values.Get("ruc"))
	return nil
}
