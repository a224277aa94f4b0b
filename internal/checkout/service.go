package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/bazaar/internal/metrics"
	"github.com/example/bazaar/internal/models"
)

// Config carries the injected pricing knobs. Tax and shipping are
// deliberately flat rates; a real rate service would slot in here.
type Config struct {
	TaxRate           float64
	ShippingFlatFee   float64
	OrderNumberPrefix string
	Currency          string
}

// Service runs the order placement workflow: snapshot the cart,
// evaluate the coupon, compute totals, and write the order as one
// transaction.
type Service struct {
	db      *gorm.DB
	cfg     Config
	metrics *metrics.Metrics
}

// NewService constructs a checkout Service. metrics may be nil.
func NewService(db *gorm.DB, cfg Config, m *metrics.Metrics) *Service {
	return &Service{db: db, cfg: cfg, metrics: m}
}

// PlaceOrderInput is the checkout submission.
type PlaceOrderInput struct {
	CartID            uuid.UUID
	ShippingAddressID uuid.UUID
	BillingAddressID  *uuid.UUID
	PaymentMethod     string
	CouponCode        string
	Notes             string
}

// PlaceOrderResult is returned on success.
type PlaceOrderResult struct {
	Order models.Order
	Items []models.OrderItem
}

const maxOrderNumberAttempts = 5

// checkAddressOwnership verifies the address exists and belongs to
// the user; anything else is ErrNotFound to the caller.
func (s *Service) checkAddressOwnership(ctx context.Context, userID, addressID uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserAddress{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// PlaceOrder performs the full checkout for an authenticated actor.
// The order header, line items, coupon usage, stock decrements and
// cart completion are written in a single transaction; a failure at
// any step rolls back every one of them.
func (s *Service) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	snapshot, err := s.LoadSnapshot(ctx, in.CartID, actor)
	if err != nil {
		return nil, err
	}

	if err := s.checkAddressOwnership(ctx, actor.UserID, in.ShippingAddressID); err != nil {
		return nil, err
	}
	if in.BillingAddressID != nil {
		if err := s.checkAddressOwnership(ctx, actor.UserID, *in.BillingAddressID); err != nil {
			return nil, err
		}
	}

	subtotal := snapshot.Subtotal()

	var coupon *models.Coupon
	var discount float64
	if in.CouponCode != "" {
		coupon, discount, err = s.EvaluateCoupon(ctx, in.CouponCode, actor, subtotal)
		if err != nil {
			return nil, err
		}
	}

	totals := ComputeTotals(snapshot.Lines(), s.cfg.TaxRate, s.cfg.ShippingFlatFee, discount)

	order := models.Order{
		UserID:            actor.UserID,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentMethod:     in.PaymentMethod,
		PlacedAt:          time.Now(),
		Subtotal:          totals.Subtotal,
		TaxAmount:         totals.Tax,
		ShippingFee:       totals.Shipping,
		DiscountAmount:    totals.Discount,
		TotalAmount:       totals.Total,
		Currency:          s.cfg.Currency,
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  in.BillingAddressID,
		Notes:             in.Notes,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock product rows up front so concurrent checkouts against
		// the same products serialize. Name and SKU are frozen from
		// the locked rows; the unit price stays the snapshot price the
		// quoted totals were computed from.
		for _, item := range snapshot.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if product.Quantity < item.Quantity {
				return ErrInsufficientStock
			}

			unitPrice := ItemUnitPrice(item)
			lineTotal := Round2(unitPrice * float64(item.Quantity))
			orderItem := models.OrderItem{
				ProductID:        product.ID,
				VariantID:        item.VariantID,
				SellerID:         product.SellerID,
				ProductName:      product.Name,
				SKU:              product.SKU,
				Quantity:         item.Quantity,
				UnitPrice:        unitPrice,
				LineTotal:        lineTotal,
				ShippingAmount:   s.cfg.ShippingFlatFee,
				CommissionAmount: Round2(lineTotal * product.CommissionRate),
				Status:           models.OrderStatusPending,
			}
			if item.Variant != nil {
				orderItem.SKU = item.Variant.SKU
				orderItem.VariantLabel = item.Variant.Label
			}
			order.Items = append(order.Items, orderItem)
		}

		// Split the order's tax across the items so the persisted
		// per-item taxes sum to the order figure exactly.
		lineTotals := make([]float64, len(order.Items))
		for i := range order.Items {
			lineTotals[i] = order.Items[i].LineTotal
		}
		for i, tax := range Apportion(totals.Tax, lineTotals) {
			order.Items[i].TaxAmount = tax
		}

		if err := s.createWithFreshNumber(tx, &order); err != nil {
			return err
		}

		if coupon != nil {
			usage := models.CouponUsage{
				CouponID:       coupon.ID,
				UserID:         actor.UserID,
				OrderID:        order.ID,
				DiscountAmount: totals.Discount,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}

			// Guarded increment: the usage counter must never exceed
			// the limit even under concurrent redemptions.
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", coupon.ID).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrUsageLimitReached
			}
		}

		// Conditional decrement so stock can never go negative: a
		// concurrent order that would oversell matches zero rows and
		// fails the whole transaction.
		for _, item := range snapshot.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		if err := tx.Where("cart_id = ? AND saved_for_later = ?", snapshot.Cart.ID, false).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", snapshot.Cart.ID).
			Update("status", models.CartStatusCompleted).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.RecordStockConflict(ctx)
		}
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, order.TotalAmount, order.PaymentMethod)
	if coupon != nil {
		s.metrics.RecordCouponRedemption(ctx, coupon.Code)
	}

	items := order.Items
	order.Items = nil
	return &PlaceOrderResult{Order: order, Items: items}, nil
}

// createWithFreshNumber inserts the order, regenerating the order
// number when it collides with an existing one. The insert runs under
// a savepoint so a unique-constraint failure aborts only the attempt,
// not the surrounding transaction.
func (s *Service) createWithFreshNumber(tx *gorm.DB, order *models.Order) error {
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := NewOrderNumber(s.cfg.OrderNumberPrefix)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.SavePoint("order_insert").Error; err != nil {
			return err
		}
		lastErr = tx.Create(order).Error
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}
		if err := tx.RollbackTo("order_insert").Error; err != nil {
			return err
		}
	}
	return lastErr
}

// restockQuantities returns, per product, the quantity to put back
// when an order is cancelled. Items already returned were restocked
// when the return was processed and are skipped.
func restockQuantities(items []models.OrderItem) map[uuid.UUID]int {
	quantities := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.Returned {
			continue
		}
		quantities[item.ProductID] += item.Quantity
	}
	return quantities
}

// CancelOrder cancels an order the actor owns and restores every
// product's stock by exactly the quantity decremented at placement,
// in one transaction.
func (s *Service) CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&order, "id = ? AND user_id = ?", orderID, actor.UserID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !models.CanTransitionOrderStatus(order.Status, models.OrderStatusCancelled) {
			return ErrInvalidTransition
		}

		for productID, quantity := range restockQuantities(order.Items) {
			err := tx.Model(&models.Product{}).
				Where("id = ?", productID).
				Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
			if err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": models.OrderStatusCancelled}
		if order.PaymentStatus == models.PaymentStatusPaid {
			updates["payment_status"] = models.PaymentStatusRefunded
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).
			Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderCancelled(ctx)
	return &order, nil
}
