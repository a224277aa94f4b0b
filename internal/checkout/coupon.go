package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/example/bazaar/internal/models"
)

// ValidateCoupon checks a coupon against the cart subtotal and usage
// counters. Checks short-circuit in a fixed order: activity window,
// global usage limit, per-user limit, minimum purchase. priorUses is
// the actor's redemption count for this coupon; pass 0 for anonymous
// actors since per-user accounting needs a known user.
func ValidateCoupon(coupon *models.Coupon, now time.Time, subtotal float64, priorUses int64, actorKnown bool) error {
	if !coupon.IsActive {
		return ErrInvalidOrExpired
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return ErrInvalidOrExpired
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return ErrInvalidOrExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return ErrUsageLimitReached
	}
	if coupon.PerUserLimit > 0 && actorKnown && priorUses >= int64(coupon.PerUserLimit) {
		return ErrPerUserLimitReached
	}
	if coupon.MinimumPurchase > 0 && subtotal < coupon.MinimumPurchase {
		return ErrMinimumPurchaseNotMet
	}
	return nil
}

// Discount computes the discount a validated coupon grants on the
// given subtotal. Percentage coupons yield subtotal*value/100, fixed
// coupons yield their value. The result is clamped to the coupon's
// ceiling when configured, to the subtotal, and to be non-negative.
func Discount(coupon *models.Coupon, subtotal float64) float64 {
	var amount float64
	switch coupon.Type {
	case models.CouponTypePercentage:
		amount = subtotal * coupon.Value / 100
	case models.CouponTypeFixed:
		amount = coupon.Value
	}

	if coupon.MaxDiscount > 0 && amount > coupon.MaxDiscount {
		amount = coupon.MaxDiscount
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return Round2(amount)
}

// EvaluateCoupon validates a coupon code for the actor and subtotal
// and returns the coupon with the discount it grants. No side effects;
// redemption is recorded by PlaceOrder inside its transaction.
func (s *Service) EvaluateCoupon(ctx context.Context, code string, actor Actor, subtotal float64) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	err := s.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrInvalidOrExpired
		}
		return nil, 0, err
	}

	var priorUses int64
	if coupon.PerUserLimit > 0 && actor.Authenticated() {
		err := s.db.WithContext(ctx).Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ?", coupon.ID, actor.UserID).
			Count(&priorUses).Error
		if err != nil {
			return nil, 0, err
		}
	}

	if err := ValidateCoupon(&coupon, time.Now(), subtotal, priorUses, actor.Authenticated()); err != nil {
		return nil, 0, err
	}

	return &coupon, Discount(&coupon, subtotal), nil
}
