package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	items := []RequestedItem{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
	}
	products := []Product{
		{ID: "P1", Name: "First", Price: 10},
		{ID: "P2", Name: "Second", Price: 5},
	}

	agg, err := Aggregate(items, products)
	require.NoError(t, err)

	assert.Equal(t, 25.0, agg.TotalAmount)
	assert.Equal(t, 3, agg.TotalItems)
	require.Len(t, agg.Items, 2)
	assert.Equal(t, OrderItem{ProductID: "P1", Quantity: 2, Price: 10}, agg.Items[0])
	assert.Equal(t, OrderItem{ProductID: "P2", Quantity: 1, Price: 5}, agg.Items[1])
}

func TestAggregate_Deterministic(t *testing.T) {
	items := []RequestedItem{
		{ProductID: "P2", Quantity: 4},
		{ProductID: "P1", Quantity: 1},
	}
	products := []Product{
		{ID: "P1", Price: 3.50},
		{ID: "P2", Price: 1.25},
	}

	first, err := Aggregate(items, products)
	require.NoError(t, err)
	second, err := Aggregate(items, products)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Input item order is preserved in the output.
	assert.Equal(t, "P2", first.Items[0].ProductID)
	assert.Equal(t, "P1", first.Items[1].ProductID)
}

func TestAggregate_UnmatchedProductFailsWholeRequest(t *testing.T) {
	items := []RequestedItem{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	}
	products := []Product{{ID: "P1", Price: 10}}

	_, err := Aggregate(items, products)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestAggregate_RejectsEmptyAndInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		items []RequestedItem
	}{
		{name: "no items", items: nil},
		{name: "zero quantity", items: []RequestedItem{{ProductID: "P1", Quantity: 0}}},
		{name: "negative quantity", items: []RequestedItem{{ProductID: "P1", Quantity: -2}}},
	}
	products := []Product{{ID: "P1", Price: 10}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.items, products)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestDistinctProductIDs(t *testing.T) {
	items := []RequestedItem{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P2", Quantity: 1},
		{ProductID: "P1", Quantity: 3},
	}

	assert.Equal(t, []string{"P1", "P2"}, DistinctProductIDs(items))
}

func TestEnrichNames(t *testing.T) {
	items := []OrderItem{
		{ProductID: "P1", Quantity: 1, Price: 10},
		{ProductID: "gone", Quantity: 2, Price: 4},
	}
	EnrichNames(items, []Product{{ID: "P1", Name: "First", Price: 10}})

	assert.Equal(t, "First", items[0].Name)
	// A product that has vanished from the catalog keeps an empty name.
	assert.Empty(t, items[1].Name)
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{ProductID: "P1", Quantity: 3, Price: 2.5}
	assert.Equal(t, 7.5, item.Subtotal())
}
