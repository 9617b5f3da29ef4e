package employees

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/catalog/areas"
	"github.com/stockdesk/stockdesk/internal/crud"
)

type staticStore[T any] struct {
	items []T
	err   error
}

func (s staticStore[T]) Path() string { return "/api/test" }
func (s staticStore[T]) List(context.Context) ([]T, error) { return s.items, s.err }
func (s staticStore[T]) Create(_ context.Context, r T) (T, error) {
	return r, nil
}
func (s staticStore[T]) Update(_ context.Context, _ int64, r T) (T, error) {
	return r, nil
}
func (s staticStore[T]) Delete(context.Context, int64) error { return nil }

func ptr(v int64) *int64 { return &v }

func TestFilterMatchesAreaNameCaseInsensitive(t *testing.T) {
	store := staticStore[Employee]{items: []Employee{
		{ID: ptr(1), FirstName: "Ana", LastName: "Diaz", Email: "ana@x.test", HireDate: "2023-01-01", Area: AreaRef{ID: 1, Name: "Sales"}},
		{ID: ptr(2), FirstName: "Bob", LastName: "Ruiz", Email: "bob@x.test", HireDate: "2023-02-01", Area: AreaRef{ID: 2, Name: "IT"}},
	}}
	ctrl := crud.New(Config(store), nil, nil)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SetFilter("sal")
	got := ctrl.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].FirstName)
}

func TestValidateRequiresArea(t *testing.T) {
	e := Employee{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.test", HireDate: "2023-01-01"}
	err := Validate(e)
	require.ErrorIs(t, err, crud.ErrValidation)
	var verr *crud.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "All fields are required, including the area.", verr.SafeMessage())

	e.Area.ID = 4
	assert.NoError(t, Validate(e))
}

func TestWireFormat(t *testing.T) {
	e := Employee{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.test", HireDate: "2023-01-01", Area: AreaRef{ID: 4, Name: "Sales"}}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nombre":"Ana","apellido":"Diaz","email":"ana@x.test","fecha_contrato":"2023-01-01","area":{"id":4,"nomarea":"Sales"}}`, string(data))
}

func TestLookupsFailureLeavesDropdownEmpty(t *testing.T) {
	lookups := Lookups(staticStore[areas.Area]{err: errors.New("down")})(context.Background(), slog.Default())
	assert.Empty(t, lookups[AreaField])

	lookups = Lookups(staticStore[areas.Area]{items: []areas.Area{{ID: ptr(3), Name: "Sales"}, {Name: "draft"}}})(context.Background(), slog.Default())
	require.Len(t, lookups[AreaField], 1)
	assert.Equal(t, "Sales", lookups[AreaField][0].Label)

	fields := Form{}.Fields(Employee{Area: AreaRef{ID: 3}}, lookups)
	area := fields[len(fields)-1]
	require.Len(t, area.Options, 1)
	assert.True(t, area.Options[0].Selected)
}

func TestBindKeepsAreaNameWhenUnchanged(t *testing.T) {
	e := Employee{ID: ptr(1), Area: AreaRef{ID: 3, Name: "Sales"}}
	values := url.Values{"id": {"1"}, "nombre": {"Ana"}, "area_id": {"3"}}
	require.NoError(t, Form{}.Bind(values, &e))
	assert.Equal(t, "Sales", e.Area.Name)

	values.Set("area_id", "5")
	require.NoError(t, Form{}.Bind(values, &e))
	assert.Equal(t, AreaRef{ID: 5}, e.Area)
}
