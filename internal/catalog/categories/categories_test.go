package categories

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/crud"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Category{Name: "Tools"}))
	assert.ErrorIs(t, Validate(Category{Description: "no name"}), crud.ErrValidation)
	assert.ErrorIs(t, Validate(Category{Name: "\t"}), crud.ErrValidation)
}

func TestStartEditCopiesID(t *testing.T) {
	id := int64(5)
	ctrl := crud.New(Config(nil), nil, nil)
	record := Category{ID: &id, Name: "Tools"}
	ctrl.StartEdit(record)
	ctrl.UpdateSelected(func(c *Category) { *c.ID = 6 })
	assert.Equal(t, int64(5), *record.ID)
}

func TestFormRoundTrip(t *testing.T) {
	var c Category
	require.NoError(t, Form{}.Bind(url.Values{"nombre": {"Tools"}, "descripcion": {"Hand tools"}}, &c))
	assert.Nil(t, c.ID)
	fields := Form{}.Fields(c, nil)
	require.Len(t, fields, 2)
	assert.Equal(t, "Tools", fields[0].Value)
	assert.Equal(t, "Hand tools", fields[1].Value)
}
