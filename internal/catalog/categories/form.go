package categories

import (
	"net/url"
	"strings"

	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
)

// Form binds Category to the edit form.
type Form struct{}

func (Form) Fields(c Category, _ crudhttp.Lookups) []crudhttp.Field {
	return []crudhttp.Field{
		{Name: "nombre", Label: "Name", Type: "text", Value: c.Name, Required: true},
		{Name: "descripcion", Label: "Description", Type: "textarea", Value: c.Description},
	}
}

func (Form) Bind(values url.Values, c *Category) error {
	id, err := crudhttp.ParseID(values)
	if err != nil {
		return err
	}
	c.ID = id
	c.Name = strings.TrimSpace(values.Get("nombre"))
	c.Description = strings.TrimSpace(values.Get("descripcion"))
	return nil
}
