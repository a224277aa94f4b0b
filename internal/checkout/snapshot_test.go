package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/example/bazaar/internal/models"
)

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestSnapshotLinesAndSubtotal(t *testing.T) {
	snapshot := Snapshot{
		Items: []models.CartItem{
			{
				Quantity:  2,
				UnitPrice: 90, // stale snapshot price, current product price wins
				Product:   &models.Product{BasePrice: 100, FinalPrice: 80},
			},
			{
				Quantity:  1,
				UnitPrice: 10,
				Product:   &models.Product{BasePrice: 30},
				Variant:   &models.ProductVariant{Price: 25},
			},
			{
				Quantity:  3,
				UnitPrice: 5, // no product loaded, snapshot price is all we have
			},
		},
	}

	lines := snapshot.Lines()
	assert.Equal(t, []Line{
		{UnitPrice: 80, Quantity: 2},
		{UnitPrice: 25, Quantity: 1},
		{UnitPrice: 5, Quantity: 3},
	}, lines)

	// 160 + 25 + 15
	assert.Equal(t, 200.00, snapshot.Subtotal())
}

func TestItemUnitPrice(t *testing.T) {
	tests := []struct {
		name string
		item models.CartItem
		want float64
	}{
		{
			name: "variant_price_beats_product",
			item: models.CartItem{
				UnitPrice: 10,
				Product:   &models.Product{BasePrice: 30, FinalPrice: 28},
				Variant:   &models.ProductVariant{Price: 25},
			},
			want: 25,
		},
		{
			name: "zero_variant_price_falls_back_to_product",
			item: models.CartItem{
				UnitPrice: 10,
				Product:   &models.Product{BasePrice: 30},
				Variant:   &models.ProductVariant{},
			},
			want: 30,
		},
		{
			name: "product_selling_price",
			item: models.CartItem{
				UnitPrice: 90,
				Product:   &models.Product{BasePrice: 100, FinalPrice: 80},
			},
			want: 80,
		},
		{
			name: "captured_price_when_nothing_loaded",
			item: models.CartItem{UnitPrice: 5},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemUnitPrice(tt.item))
		})
	}
}

func TestActor(t *testing.T) {
	authed := AuthenticatedActor(newUUID(t))
	assert.True(t, authed.Authenticated())
	assert.True(t, authed.Known())

	guest := AnonymousActor("sess-123")
	assert.False(t, guest.Authenticated())
	assert.True(t, guest.Known())

	var nobody Actor
	assert.False(t, nobody.Authenticated())
	assert.False(t, nobody.Known())
}
