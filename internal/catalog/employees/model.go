// Package employees manages staff records and their area assignment.
package employees

const (
	// Resource is the API collection path.
	Resource = "/api/empleados"
	// Entity names exports and snapshots.
	Entity = "empleados"
)

// AreaRef is the embedded area an employee belongs to.
type AreaRef struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"nomarea"`
}

// Employee is a staff member.
type Employee struct {
	ID        *int64  `json:"id,omitempty"`
	FirstName string  `json:"nombre" validate:"notblank"`
	LastName  string  `json:"apellido" validate:"notblank"`
	Email     string  `json:"email" validate:"notblank"`
	HireDate  string  `json:"fecha_contrato" validate:"notblank"`
	Area      AreaRef `json:"area"`
}

func (e Employee) Identity() (int64, bool) {
	if e.ID == nil {
		return 0, false
	}
	return *e.ID, true
}

func (e Employee) Clone() Employee {
	out := e
	if e.ID != nil {
		id := *e.ID
		out.ID = &id
	}
	return out
}

// Blank is the empty create template; the zero area id means "not chosen".
func Blank() Employee {
	return Employee{}
}
