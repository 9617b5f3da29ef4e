// Package products manages the product catalog with its category and
// supplier references.
package products

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	// Resource is the API collection path.
	Resource = "/api/productos"
	// Entity names exports and snapshots.
	Entity = "productos"
)

// CategoryRef is the embedded category of a product.
type CategoryRef struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"nombre"`
}

// SupplierRef is the embedded supplier of a product.
type SupplierRef struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"nombre"`
}

// Product is a stocked item.
type Product struct {
	ID       *int64          `json:"id,omitempty"`
	Name     string          `json:"nombre" validate:"notblank"`
	Price    decimal.Decimal `json:"precio"`
	Stock    int             `json:"stock"`
	Category CategoryRef     `json:"categoria"`
	Supplier SupplierRef     `json:"proveedor"`
}

// MarshalJSON sends the price as a JSON number, which is what the API
// expects; decimal.Decimal quotes it by default.
func (p Product) MarshalJSON() ([]byte, error) {
	type wire Product
	return json.Marshal(struct {
		wire
		Price json.Number `json:"precio"`
	}{wire: wire(p), Price: json.Number(p.Price.String())})
}

func (p Product) Identity() (int64, bool) {
	if p.ID == nil {
		return 0, false
	}
	return *p.ID, true
}

func (p Product) Clone() Product {
	out := p
	if p.ID != nil {
		id := *p.ID
		out.ID = &id
	}
	return out
}

// Blank is the empty create template.
func Blank() Product {
	return Product{Price: decimal.Zero}
}
