// Package catalog assembles the five entity screens and their snapshot
// exporters over one API client.
package catalog

import (
	"log/slog"
	"sort"

	"github.com/stockdesk/stockdesk/internal/catalog/areas"
	"github.com/stockdesk/stockdesk/internal/catalog/categories"
	"github.com/stockdesk/stockdesk/internal/catalog/employees"
	"github.com/stockdesk/stockdesk/internal/catalog/products"
	"github.com/stockdesk/stockdesk/internal/catalog/suppliers"
	"github.com/stockdesk/stockdesk/internal/crud"
	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// Screens returns the entity screens in menu order.
func Screens(client *upstream.Client, deps crudhttp.Deps) []crudhttp.Mounter {
	return []crudhttp.Mounter{
		crudhttp.NewScreen[categories.Category](deps, "/categorias",
			categories.Config(upstream.NewResource[categories.Category](client, categories.Resource)),
			categories.Form{}, nil),
		crudhttp.NewScreen[suppliers.Supplier](deps, "/proveedores",
			suppliers.Config(upstream.NewResource[suppliers.Supplier](client, suppliers.Resource)),
			suppliers.Form{}, nil),
		crudhttp.NewScreen[areas.Area](deps, "/areas",
			areas.Config(upstream.NewResource[areas.Area](client, areas.Resource)),
			areas.Form{}, nil),
		crudhttp.NewScreen[employees.Employee](deps, "/empleados",
			employees.Config(upstream.NewResource[employees.Employee](client, employees.Resource)),
			employees.Form{}, employees.Lookups(employees.AreaStore(client))),
		crudhttp.NewScreen[products.Product](deps, "/productos",
			products.Config(upstream.NewResource[products.Product](client, products.Resource)),
			products.Form{}, products.Lookups(products.CategoryStore(client), products.SupplierStore(client))),
	}
}

// ExporterFactory builds a fresh controller for one snapshot run.
type ExporterFactory func(logger *slog.Logger) crud.Exporter

// Exporters maps each entity name to its snapshot controller factory.
func Exporters(client *upstream.Client) map[string]ExporterFactory {
	return map[string]ExporterFactory{
		categories.Entity: func(logger *slog.Logger) crud.Exporter {
			return crud.New(categories.Config(upstream.NewResource[categories.Category](client, categories.Resource)), logger, nil)
		},
		suppliers.Entity: func(logger *slog.Logger) crud.Exporter {
			return crud.New(suppliers.Config(upstream.NewResource[suppliers.Supplier](client, suppliers.Resource)), logger, nil)
		},
		areas.Entity: func(logger *slog.Logger) crud.Exporter {
			return crud.New(areas.Config(upstream.NewResource[areas.Area](client, areas.Resource)), logger, nil)
		},
		employees.Entity: func(logger *slog.Logger) crud.Exporter {
			return crud.New(employees.Config(upstream.NewResource[employees.Employee](client, employees.Resource)), logger, nil)
		},
		products.Entity: func(logger *slog.Logger) crud.Exporter {
			return crud.New(products.Config(upstream.NewResource[products.Product](client, products.Resource)), logger, nil)
		},
	}
}

// Entities lists the entity names in sorted order.
func Entities() []string {
	names := []string{categories.Entity, suppliers.Entity, areas.Entity, employees.Entity, products.Entity}
	sort.Strings(names)
	return names
}
