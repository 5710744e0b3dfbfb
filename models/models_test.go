package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func textPtr(s Text) *Text { return &s }

func TestProductPatchApply(t *testing.T) {
	p := Product{ID: 3, Name: "Civic", Title: Title{T1: "honda", T2: "civic"}, Price: "20000", Year: "2019"}

	patch := ProductPatch{
		Price: textPtr("18500"),
		Title: &TitlePatch{T2: strPtr("civic si")},
	}
	require.False(t, patch.Empty())
	patch.Apply(&p)

	assert.Equal(t, uint(3), p.ID)
	assert.Equal(t, "Civic", p.Name)
	assert.Equal(t, Text("18500"), p.Price)
	assert.Equal(t, "honda", p.Title.T1)
	assert.Equal(t, "civic si", p.Title.T2)
	assert.Equal(t, Text("2019"), p.Year)

	assert.True(t, ProductPatch{}.Empty())
}

func TestPriceAcceptsNumberOrString(t *testing.T) {
	var items []LineItem
	body := `[{"product":1,"quantity":2,"price":10},{"product":2,"quantity":3,"price":"4.5"}]`
	require.NoError(t, json.Unmarshal([]byte(body), &items))

	assert.Equal(t, 20.0, items[0].Total())
	assert.Equal(t, 13.5, items[1].Total())

	var p Price
	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &p))
	assert.Error(t, json.Unmarshal([]byte(`true`), &p))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusApproved.Valid())
	assert.True(t, OrderStatusRejected.Valid())
	assert.False(t, OrderStatus("pending").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestTextAcceptsStringOrNumber(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","price":19.99}`), &p))
	assert.Equal(t, Text("19.99"), p.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","price":"20 USD"}`), &p))
	assert.Equal(t, Text("20 USD"), p.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"price":true}`), &p))
}
