package areas

import (
	"net/url"
	"strings"

	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
)

// Form binds Area to the edit form.
type Form struct{}

func (Form) Fields(a Area, _ crudhttp.Lookups) []crudhttp.Field {
	return []crudhttp.Field{
		{Name: "nomarea", Label: "Name", Type: "text", Value: a.Name, Required: true},
	}
}

func (Form) Bind(values url.Values, a *Area) error {
	id, err := crudhttp.ParseID(values)
	if err != nil {
		return err
	}
	a.ID = id
	a.Name = strings.TrimSpace(values.Get("nomarea"))
	return nil
}
