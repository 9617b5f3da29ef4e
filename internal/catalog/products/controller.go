package products

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/catalog/categories"
	"github.com/stockdesk/stockdesk/internal/catalog/suppliers"
	"github.com/stockdesk/stockdesk/internal/crud"
	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// Lookup keys of the reference dropdowns.
const (
	CategoryField = "categoria_id"
	SupplierField = "proveedor_id"
)

// Config wires the product screen to store.
func Config(store crud.Store[Product]) crud.Config[Product] {
	return crud.Config[Product]{
		Entity:   Entity,
		Title:    "Products",
		Noun:     "product",
		Store:    store,
		Blank:    Blank,
		Validate: Validate,
		Columns: []crud.Column[Product]{
			crud.IDColumn(func(p Product) *int64 { return p.ID }),
			{Header: "Name", Text: func(p Product) string { return p.Name }},
			{
				Header: "Price",
				Text:   func(p Product) string { return "$" + p.Price.StringFixed(2) },
				Value:  func(p Product) any { return p.Price.InexactFloat64() },
			},
			{
				Header: "Stock",
				Text:   func(p Product) string { return strconv.Itoa(p.Stock) },
				Value:  func(p Product) any { return p.Stock },
			},
			{Header: "Category", Text: func(p Product) string { return p.Category.Name }},
			{Header: "Supplier", Text: func(p Product) string { return p.Supplier.Name }},
		},
		SearchFields: func(p Product) []string {
			return []string{p.Name, p.Category.Name, p.Supplier.Name}
		},
		ConflictFallback: "The product cannot be deleted because other records reference it.",
	}
}

// Validate requires a name, a category and a supplier.
func Validate(p Product) error {
	return crud.Required(p, "Name, category and supplier are required.")
}

// Lookups loads the category and supplier dropdowns concurrently. Either
// failing leaves only its own dropdown empty.
func Lookups(cats crud.Store[categories.Category], sups crud.Store[suppliers.Supplier]) crudhttp.LookupFunc {
	return func(ctx context.Context, logger *slog.Logger) crudhttp.Lookups {
		var catOptions, supOptions []crudhttp.Option
		var g errgroup.Group
		g.Go(func() error {
			items, err := cats.List(ctx)
			if err != nil {
				logger.Error("load categories lookup", slog.String("resource", cats.Path()), slog.Any("error", err))
				return nil
			}
			catOptions = crudhttp.Options(withIDs(items), func(c categories.Category) int64 { return *c.ID }, func(c categories.Category) string { return c.Name })
			return nil
		})
		g.Go(func() error {
			items, err := sups.List(ctx)
			if err != nil {
				logger.Error("load suppliers lookup", slog.String("resource", sups.Path()), slog.Any("error", err))
				return nil
			}
			supOptions = crudhttp.Options(withIDs(items), func(s suppliers.Supplier) int64 { return *s.ID }, func(s suppliers.Supplier) string { return s.Name })
			return nil
		})
		_ = g.Wait()
		return crudhttp.Lookups{CategoryField: catOptions, SupplierField: supOptions}
	}
}

// CategoryStore is the read-only category collection used for the dropdown.
func CategoryStore(client *upstream.Client) crud.Store[categories.Category] {
	return upstream.NewResource[categories.Category](client, categories.Resource)
}

// SupplierStore is the read-only supplier collection used for the dropdown.
func SupplierStore(client *upstream.Client) crud.Store[suppliers.Supplier] {
	return upstream.NewResource[suppliers.Supplier](client, suppliers.Resource)
}

func withIDs[T crud.Record[T]](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := item.Identity(); ok {
			out = append(out, item)
		}
	}
	return out
}
