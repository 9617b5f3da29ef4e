package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/catalog/areas"
	"github.com/stockdesk/stockdesk/internal/crud"
	crudhttp "github.com/stockdesk/stockdesk/internal/crud/http"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

var _ crud.Exporter = (*crud.Controller[areas.Area])(nil)

func TestScreensMountedUnderResourceNames(t *testing.T) {
	client := upstream.NewClient(upstream.Options{BaseURL: "http://api.test"})
	screens := Screens(client, crudhttp.Deps{})
	var bases []string
	for _, s := range screens {
		bases = append(bases, s.Base())
	}
	assert.Equal(t, []string{"/categorias", "/proveedores", "/areas", "/empleados", "/productos"}, bases)
}

func TestExportersCoverEveryEntity(t *testing.T) {
	client := upstream.NewClient(upstream.Options{BaseURL: "http://api.test"})
	exporters := Exporters(client)
	require.Len(t, exporters, len(Entities()))
	for _, name := range Entities() {
		factory, ok := exporters[name]
		require.True(t, ok, name)
		assert.Equal(t, name, factory(nil).Entity())
	}
}
