// Package areas manages the organisational areas employees belong to.
package areas

const (
	// Resource is the API collection path.
	Resource = "/api/areas"
	// Entity names exports and snapshots.
	Entity = "areas"
)

// Area is a department.
type Area struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"nomarea" validate:"notblank"`
}

func (a Area) Identity() (int64, bool) {
	if a.ID == nil {
		return 0, false
	}
	return *a.ID, true
}

func (a Area) Clone() Area {
	out := a
	if a.ID != nil {
		id := *a.ID
		out.ID = &id
	}
	return out
}

// Blank is the empty create template.
func Blank() Area {
	return Area{}
}
