package employees

import (
	"context"
	"log/slog"

	"github.com/stockdesk/stockdesk/internal/catalog/areas"
	"github.com/stockdesk/stockdesk/internal/crud"
	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// AreaField is the lookup key of the area dropdown.
const AreaField = "area_id"

// Config wires the employee screen to store.
func Config(store crud.Store[Employee]) crud.Config[Employee] {
	return crud.Config[Employee]{
		Entity:   Entity,
		Title:    "Employees",
		Noun:     "employee",
		Store:    store,
		Blank:    Blank,
		Validate: Validate,
		Columns: []crud.Column[Employee]{
			crud.IDColumn(func(e Employee) *int64 { return e.ID }),
			{Header: "First name", Text: func(e Employee) string { return e.FirstName }},
			{Header: "Last name", Text: func(e Employee) string { return e.LastName }},
			{Header: "Email", Text: func(e Employee) string { return e.Email }},
			{Header: "Hire date", Text: func(e Employee) string { return e.HireDate }},
			{Header: "Area", Text: func(e Employee) string { return e.Area.Name }},
		},
		SearchFields: func(e Employee) []string {
			return []string{e.FirstName, e.LastName, e.Email, e.Area.Name}
		},
		ConflictFallback: "The employee cannot be deleted because other records reference it.",
	}
}

// Validate requires every field and a chosen area.
func Validate(e Employee) error {
	return crud.Required(e, "All fields are required, including the area.")
}

// Lookups loads the area dropdown.
func Lookups(store crud.Store[areas.Area]) crudhttp.LookupFunc {
	return func(ctx context.Context, logger *slog.Logger) crudhttp.Lookups {
		items, err := store.List(ctx)
		if err != nil {
			logger.Error("load areas lookup", slog.String("resource", store.Path()), slog.Any("error", err))
			return crudhttp.Lookups{AreaField: nil}
		}
		return crudhttp.Lookups{AreaField: areaOptions(items)}
	}
}

// AreaStore is the read-only area collection used for the dropdown.
func AreaStore(client *upstream.Client) crud.Store[areas.Area] {
	return upstream.NewResource[areas.Area](client, areas.Resource)
}

func areaOptions(items []areas.Area) []crudhttp.Option {
	withID := make([]areas.Area, 0, len(items))
	for _, a := range items {
		if a.ID != nil {
			withID = append(withID, a)
		}
	}
	return crudhttp.Options(withID, func(a areas.Area) int64 { return *a.ID }, func(a areas.Area) string { return a.Name })
}
