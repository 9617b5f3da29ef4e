package areas

import "github.com/stockdesk/stockdesk/internal/crud"

// Config wires the area screen to store.
func Config(store crud.Store[Area]) crud.Config[Area] {
	return crud.Config[Area]{
		Entity:   Entity,
		Title:    "Areas",
		Noun:     "area",
		Store:    store,
		Blank:    Blank,
		Validate: Validate,
		Columns: []crud.Column[Area]{
			crud.IDColumn(func(a Area) *int64 { return a.ID }),
			{Header: "Name", Text: func(a Area) string { return a.Name }},
		},
		SearchFields:     func(a Area) []string { return []string{a.Name} },
		ConflictFallback: "The area cannot be deleted because employees are assigned to it.",
	}
}

// Validate requires a name.
func Validate(a Area) error {
	return crud.Required(a, "The area name is required.")
}
