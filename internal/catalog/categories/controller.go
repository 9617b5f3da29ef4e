package categories

import "github.com/stockdesk/stockdesk/internal/crud"

// Config wires the category screen to store.
func Config(store crud.Store[Category]) crud.Config[Category] {
	return crud.Config[Category]{
		Entity:   Entity,
		Title:    "Categories",
		Noun:     "category",
		Store:    store,
		Blank:    Blank,
		Validate: Validate,
		Columns: []crud.Column[Category]{
			crud.IDColumn(func(c Category) *int64 { return c.ID }),
			{Header: "Name", Text: func(c Category) string { return c.Name }},
			{Header: "Description", Text: func(c Category) string { return c.Description }},
		},
		SearchFields: func(c Category) []string {
			return []string{c.Name, c.Description}
		},
		ConflictFallback: "The category cannot be deleted because products reference it.",
	}
}

// Validate requires a name.
func Validate(c Category) error {
	return crud.Required(c, "The category name is required.")
}
