package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/example/bazaar/internal/models"
)

func TestRestockQuantities(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("sums_per_product", func(t *testing.T) {
		got := restockQuantities([]models.OrderItem{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
			{ProductID: productA, Quantity: 3},
		})
		assert.Equal(t, map[uuid.UUID]int{productA: 5, productB: 1}, got)
	})

	t.Run("skips_returned_items", func(t *testing.T) {
		got := restockQuantities([]models.OrderItem{
			{ProductID: productA, Quantity: 2, Returned: true},
			{ProductID: productB, Quantity: 4},
		})
		assert.Equal(t, map[uuid.UUID]int{productB: 4}, got)
	})

	t.Run("empty_order", func(t *testing.T) {
		assert.Empty(t, restockQuantities(nil))
	})
}

// Cancelling must return stock to exactly where it stood before the
// order was placed: the quantities added back equal the quantities
// decremented at checkout.
func TestCancelRestoresPrePlacementStock(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	stockBefore := map[uuid.UUID]int{productA: 10, productB: 3}
	items := []models.OrderItem{
		{ProductID: productA, Quantity: 4},
		{ProductID: productA, Quantity: 1},
		{ProductID: productB, Quantity: 3},
	}

	stock := map[uuid.UUID]int{}
	for id, qty := range stockBefore {
		stock[id] = qty
	}
	for _, item := range items {
		stock[item.ProductID] -= item.Quantity
	}
	assert.Equal(t, 5, stock[productA])
	assert.Equal(t, 0, stock[productB])

	for id, qty := range restockQuantities(items) {
		stock[id] += qty
	}
	assert.Equal(t, stockBefore, stock)
}
