package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/models"
)

// Snapshot is the active cart with its checkout-eligible items and
// the product data needed to price and validate them.
type Snapshot struct {
	Cart  models.Cart
	Items []models.CartItem
}

// Lines converts the snapshot items into totals-calculator input.
// The current product (or variant) price wins over the price captured
// when the item was added to the cart.
func (s *Snapshot) Lines() []Line {
	lines := make([]Line, 0, len(s.Items))
	for _, item := range s.Items {
		lines = append(lines, Line{UnitPrice: ItemUnitPrice(item), Quantity: item.Quantity})
	}
	return lines
}

// Subtotal returns the rounded sum of line subtotals.
func (s *Snapshot) Subtotal() float64 {
	var sum float64
	for _, item := range s.Items {
		sum += ItemUnitPrice(item) * float64(item.Quantity)
	}
	return Round2(sum)
}

// ItemUnitPrice resolves the price a cart item sells for: the variant
// price when the item has one, otherwise the product's selling price,
// falling back to the price captured when the item was added. Every
// place that prices a cart line goes through this.
func ItemUnitPrice(item models.CartItem) float64 {
	if item.Variant != nil && item.Variant.Price > 0 {
		return item.Variant.Price
	}
	if item.Product != nil {
		return item.Product.SellingPrice()
	}
	return item.UnitPrice
}

// LoadSnapshot loads the actor's active cart by id together with its
// non-saved-for-later items and their products. Returns ErrNotFound
// when the cart does not exist, is not owned by the actor, or has no
// eligible items; callers treat this as "cannot checkout".
func (s *Service) LoadSnapshot(ctx context.Context, cartID uuid.UUID, actor Actor) (*Snapshot, error) {
	query := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", cartID, models.CartStatusActive)

	switch {
	case actor.Authenticated():
		query = query.Where("user_id = ?", actor.UserID)
	case actor.SessionID != "":
		query = query.Where("session_id = ?", actor.SessionID)
	default:
		return nil, ErrNotFound
	}

	var cart models.Cart
	err := query.
		Preload("Items", "saved_for_later = ?", false).
		Preload("Items.Product").
		Preload("Items.Variant").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, ErrNotFound
	}

	snapshot := &Snapshot{Cart: cart, Items: cart.Items}
	snapshot.Cart.Items = nil
	return snapshot, nil
}
