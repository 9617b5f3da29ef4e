package products

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/crud"
	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
)

// Form binds Product to the edit form.
type Form struct{}

func (Form) Fields(p Product, lookups crudhttp.Lookups) []crudhttp.Field {
	return []crudhttp.Field{
		{Name: "nombre", Label: "Name", Type: "text", Value: p.Name, Required: true},
		{Name: "precio", Label: "Price", Type: "number", Step: "0.01", Value: p.Price.StringFixed(2)},
		{Name: "stock", Label: "Stock", Type: "number", Step: "1", Value: strconv.Itoa(p.Stock)},
		{Name: CategoryField, Label: "Category", Type: "select", Required: true, Options: crudhttp.Select(lookups[CategoryField], p.Category.ID)},
		{Name: SupplierField, Label: "Supplier", Type: "select", Required: true, Options: crudhttp.Select(lookups[SupplierField], p.Supplier.ID)},
	}
}

func (Form) Bind(values url.Values, p *Product) error {
	id, err := crudhttp.ParseID(values)
	if err != nil {
		return err
	}
	price := decimal.Zero
	if raw := strings.TrimSpace(values.Get("precio")); raw != "" {
		price, err = decimal.NewFromString(raw)
		if err != nil {
			return &crud.ValidationError{Message: "Please enter a valid price.", Fields: []string{"precio"}}
		}
	}
	stock, err := crudhttp.ParseInt(values, "stock")
	if err != nil {
		return err
	}
	categoryID, err := crudhttp.ParseRef(values, CategoryField)
	if err != nil {
		return err
	}
	supplierID, err := crudhttp.ParseRef(values, SupplierField)
	if err != nil {
		return err
	}

	p.ID = id
	p.Name = strings.TrimSpace(values.Get("nombre"))
	p.Price = price
	p.Stock = stock
	if p.Category.ID != categoryID {
		p.Category = CategoryRef{ID: categoryID}
	}
	if p.Supplier.ID != supplierID {
		p.Supplier = SupplierRef{ID: supplierID}
	}
	return nil
}
