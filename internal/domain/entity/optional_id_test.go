package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestParseOptionalID_CentinelasSonAusencia(t *testing.T) {
	for _, raw := range []string{"", "none", "NONE", " none ", "null"} {
		id := entity.ParseOptionalID(raw)
		assert.False(t, id.Valid(), "raw=%q", raw)
		assert.Nil(t, id.Ptr())
	}
	id := entity.ParseOptionalID("abc")
	require.True(t, id.Valid())
	assert.Equal(t, "abc", id.ID())
	assert.Equal(t, "abc", *id.Ptr())
}

func TestOptionalID_JSON(t *testing.T) {
	var in struct {
		A entity.OptionalID `json:"a"`
		B entity.OptionalID `json:"b"`
		C entity.OptionalID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"none","b":null,"c":"r-1"}`), &in))
	assert.False(t, in.A.Valid())
	assert.False(t, in.B.Valid())
	assert.Equal(t, "r-1", in.C.ID())

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":null,"c":"r-1"}`, string(out))
}

func TestParseDirection(t *testing.T) {
	d, err := entity.ParseDirection("in")
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionIN, d)
	_, err = entity.ParseDirection("transfer")
	assert.Error(t, err)
}

func TestProduct_IsLowStock(t *testing.T) {
	p := &entity.Product{Quantity: 5}
	assert.True(t, p.IsLowStock(10))
	p.ReorderPoint = 3
	assert.False(t, p.IsLowStock(10))
}
