package suppliers

import (
	"github.com/stockdesk/stockdesk/internal/crud"
)

const requiredMessage = "Name, phone and tax ID are required to register the supplier."

// Config wires the supplier screen to store.
func Config(store crud.Store[Supplier]) crud.Config[Supplier] {
	return crud.Config[Supplier]{
		Entity:   Entity,
		Title:    "Suppliers",
		Noun:     "supplier",
		Store:    store,
		Blank:    Blank,
		Validate: Validate,
		Columns: []crud.Column[Supplier]{
			crud.IDColumn(func(s Supplier) *int64 { return s.ID }),
			{Header: "Name", Text: func(s Supplier) string { return s.Name }},
			{Header: "Phone", Text: func(s Supplier) string { return s.Phone }},
			{Header: "Email", Text: func(s Supplier) string { return s.Email }},
			{Header: "Tax ID", Text: func(s Supplier) string { return s.TaxID }},
		},
		SearchFields: func(s Supplier) []string {
			return []string{s.Name, s.Email, s.TaxID}
		},
		ConflictFallback: "The supplier cannot be deleted because products reference it.",
	}
}

// Validate requires name, phone and tax ID.
func Validate(s Supplier) error {
	return crud.Required(s, requiredMessage)
}
