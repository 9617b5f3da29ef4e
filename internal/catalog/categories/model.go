// Package categories manages the product category catalog.
package categories

const (
	// Resource is the API collection path.
	Resource = "/api/categorias"
	// Entity names exports and snapshots.
	Entity = "categorias"
)

// Category groups products.
type Category struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"nombre" validate:"notblank"`
	Description string `json:"descripcion"`
}

func (c Category) Identity() (int64, bool) {
	if c.ID == nil {
		return 0, false
	}
	return *c.ID, true
}

func (c Category) Clone() Category {
	out := c
	if c.ID != nil {
		id := *c.ID
		out.ID = &id
	}
	return out
}

// Blank is the empty create template.
func Blank() Category {
	return Category{}
}
