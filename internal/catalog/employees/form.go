package employees

import (
	"net/url"
	"strings"

	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
)

// Form binds Employee to the edit form.
type Form struct{}

func (Form) Fields(e Employee, lookups crudhttp.Lookups) []crudhttp.Field {
	return []crudhttp.Field{
		{Name: "nombre", Label: "First name", Type: "text", Value: e.FirstName, Required: true},
		{Name: "apellido", Label: "Last name", Type: "text", Value: e.LastName, Required: true},
		{Name: "email", Label: "Email", Type: "email", Value: e.Email, Required: true},
		{Name: "fecha_contrato", Label: "Hire date", Type: "date", Value: e.HireDate, Required: true},
		{Name: AreaField, Label: "Area", Type: "select", Required: true, Options: crudhttp.Select(lookups[AreaField], e.Area.ID)},
	}
}

func (Form) Bind(values url.Values, e *Employee) error {
	id, err := crudhttp.ParseID(values)
	if err != nil {
		return err
	}
	areaID, err := crudhttp.ParseRef(values, AreaField)
	if err != nil {
		return err
	}
	e.ID = id
	e.FirstName = strings.TrimSpace(values.Get("nombre"))
	e.LastName = strings.TrimSpace(values.Get("apellido"))
	e.Email = strings.TrimSpace(values.Get("email"))
	e.HireDate = strings.TrimSpace(values.Get("fecha_contrato"))
	if e.Area.ID != areaID {
		e.Area = AreaRef{ID: areaID}
	}
	return nil
}
