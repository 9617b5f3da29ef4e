// Package suppliers manages the supplier catalog.
package suppliers

// Resource is the API collection path.
const Resource = "/api/proveedores"

// Entity names exports and snapshots.
const Entity = "proveedores"

// Supplier is a vendor products are bought from.
type Supplier struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"nombre" validate:"notblank"`
	Phone string `json:"telefono" validate:"notblank"`
	Email string `json:"email"`
	TaxID string `json:"ruc" validate:"notblank"`
}

// Identity implements crud.Record.
func (s Supplier) Identity() (int64, bool) {
	if s.ID == nil {
		return 0, false
	}
	return *s.ID, true
}

// Clone implements crud.Record.
func (s Supplier) Clone() Supplier {
	out := s
	if s.ID != nil {
		id := *s.ID
		out.ID = &id
	}
	return out
}

// Blank is the empty create template.
func Blank() Supplier {
	return Supplier{}
}
