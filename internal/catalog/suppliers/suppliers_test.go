package suppliers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/crud"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

type request struct {
	Method string
	Path   string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []request
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		_, _ = io.WriteString(w, `[{"id":1,"nombre":"Acme","telefono":"555-1000","email":"a@acme.com","ruc":"RUC1"}]`)
	case http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":1,"nombre":"Acme","telefono":"555-1000","email":"a@acme.com","ruc":"RUC1"}`)
	}
}

func (f *fakeAPI) Requests() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

func TestCreateSupplierPostsAndReloads(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(upstream.Options{BaseURL: srv.URL})
	ctrl := crud.New(Config(upstream.NewResource[Supplier](client, Resource)), nil, nil)

	ctrl.StartCreate()
	ctrl.UpdateSelected(func(s *Supplier) {
		*s = Supplier{Name: "Acme", Phone: "555-1000", Email: "a@acme.com", TaxID: "RUC1"}
	})
	require.NoError(t, ctrl.Save(context.Background()))

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/proveedores", reqs[0].Path)
	assert.JSONEq(t, `{"nombre":"Acme","telefono":"555-1000","email":"a@acme.com","ruc":"RUC1"}`, reqs[0].Body)
	assert.Equal(t, http.MethodGet, reqs[1].Method)

	state := ctrl.Snapshot()
	assert.False(t, state.FormVisible)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Acme", state.Items[0].Name)
}

func TestValidateRequiresNamePhoneTaxID(t *testing.T) {
	assert.NoError(t, Validate(Supplier{Name: "Acme", Phone: "1", TaxID: "R"}))

	err := Validate(Supplier{Name: "Acme", Phone: " ", TaxID: "R", Email: "x@y.z"})
	require.ErrorIs(t, err, crud.ErrValidation)

	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, requiredMessage, verr.SafeMessage())
	assert.Equal(t, []string{"Supplier.Phone"}, verr.Fields)
}

func TestFormBindKeepsID(t *testing.T) {
	var s Supplier
	err := Form{}.Bind(url.Values{"id": {"7"}, "nombre": {" Acme "}, "telefono": {"1"}, "ruc": {"R"}}, &s)
	require.NoError(t, err)
	require.NotNil(t, s.ID)
	assert.Equal(t, int64(7), *s.ID)
	assert.Equal(t, "Acme", s.Name)

	err = Form{}.Bind(url.Values{"id": {"x"}}, &s)
	assert.ErrorIs(t, err, crud.ErrValidation)
}

func TestColumns(t *testing.T) {
	id := int64(3)
	ctrl := crud.New(Config(nil), nil, nil)
	assert.Equal(t, []string{"ID", "Name", "Phone", "Email", "Tax ID"}, ctrl.Headers())
	assert.Equal(t, []string{"3", "Acme", "1", "", "R"}, ctrl.Row(Supplier{ID: &id, Name: "Acme", Phone: "1", TaxID: "R"}))
}
