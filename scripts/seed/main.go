package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/catalog/areas"
	"github.com/stockdesk/stockdesk/internal/catalog/categories"
	"github.com/stockdesk/stockdesk/internal/catalog/employees"
	"github.com/stockdesk/stockdesk/internal/catalog/products"
	"github.com/stockdesk/stockdesk/internal/catalog/suppliers"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

type seedConfig struct {
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	Username   string `envconfig:"SEED_USER" default:"admin"`
	Password   string `envconfig:"SEED_PASSWORD" required:"true"`
}

func main() {
	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := upstream.NewClient(upstream.Options{BaseURL: cfg.APIBaseURL, Timeout: 20 * time.Second})
	session, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	ctx = upstream.WithSession(ctx, session)
	defer func() { _ = client.Logout(ctx) }()

	fmt.Println("→ Seeding categories...")
	cats, err := seed(ctx, upstream.NewResource[categories.Category](client, categories.Resource), []categories.Category{
		{Name: "Bebidas", Description: "Gaseosas, jugos y aguas"},
		{Name: "Abarrotes", Description: "Productos secos de primera necesidad"},
		{Name: "Limpieza", Description: "Artículos de limpieza del hogar"},
	})
	if err != nil {
		log.Fatalf("seed categories: %v", err)
	}

	fmt.Println("→ Seeding suppliers...")
	sups, err := seed(ctx, upstream.NewResource[suppliers.Supplier](client, suppliers.Resource), []suppliers.Supplier{
		{Name: "Distribuidora Central", Phone: "014567890", Email: "ventas@central.pe", TaxID: "20123456789"},
		{Name: "Importaciones del Sur", Phone: "054223344", Email: "contacto@delsur.pe", TaxID: "20987654321"},
	})
	if err != nil {
		log.Fatalf("seed suppliers: %v", err)
	}

	fmt.Println("→ Seeding areas...")
	ars, err := seed(ctx, upstream.NewResource[areas.Area](client, areas.Resource), []areas.Area{
		{Name: "Ventas"},
		{Name: "Almacén"},
		{Name: "Administración"},
	})
	if err != nil {
		log.Fatalf("seed areas: %v", err)
	}

	fmt.Println("→ Seeding employees...")
	if _, err := seed(ctx, upstream.NewResource[employees.Employee](client, employees.Resource), []employees.Employee{
		{FirstName: "Lucía", LastName: "Salazar", Email: "lucia.salazar@example.com", HireDate: "2023-03-01", Area: employees.AreaRef{ID: idOf(ars[0].ID), Name: ars[0].Name}},
		{FirstName: "Jorge", LastName: "Quispe", Email: "jorge.quispe@example.com", HireDate: "2022-11-15", Area: employees.AreaRef{ID: idOf(ars[1].ID), Name: ars[1].Name}},
	}); err != nil {
		log.Fatalf("seed employees: %v", err)
	}

	fmt.Println("→ Seeding products...")
	if _, err := seed(ctx, upstream.NewResource[products.Product](client, products.Resource), []products.Product{
		{Name: "Agua mineral 625ml", Price: decimal.RequireFromString("1.50"), Stock: 240,
			Category: products.CategoryRef{ID: idOf(cats[0].ID)}, Supplier: products.SupplierRef{ID: idOf(sups[0].ID)}},
		{Name: "Arroz extra 5kg", Price: decimal.RequireFromString("22.90"), Stock: 60,
			Category: products.CategoryRef{ID: idOf(cats[1].ID)}, Supplier: products.SupplierRef{ID: idOf(sups[1].ID)}},
		{Name: "Detergente 2kg", Price: decimal.RequireFromString("18.40"), Stock: 35,
			Category: products.CategoryRef{ID: idOf(cats[2].ID)}, Supplier: products.SupplierRef{ID: idOf(sups[0].ID)}},
	}); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

// seed creates records only when the collection is empty and returns the
// collection as stored by the API.
func seed[T any](ctx context.Context, res *upstream.Resource[T], records []T) ([]T, error) {
	existing, err := res.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		fmt.Printf("  %s already has %d records, skipping\n", res.Path(), len(existing))
	} else {
		for _, record := range records {
			if _, err := res.Create(ctx, record); err != nil {
				return nil, err
			}
		}
		if existing, err = res.List(ctx); err != nil {
			return nil, err
		}
	}
	if len(existing) < len(records) {
		return nil, fmt.Errorf("%s holds %d records, need at least %d for references", res.Path(), len(existing), len(records))
	}
	return existing, nil
}

func idOf(id *int64) int64 {
	if id == nil {
		log.Fatal("api returned a record without id")
	}
	return *id
}
