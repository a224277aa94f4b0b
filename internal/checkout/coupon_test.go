package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/bazaar/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func activeCoupon() *models.Coupon {
	now := time.Now()
	return &models.Coupon{
		Code:      "SAVE10",
		Type:      models.CouponTypePercentage,
		Value:     10,
		IsActive:  true,
		StartsAt:  timePtr(now.Add(-time.Hour)),
		ExpiresAt: timePtr(now.Add(time.Hour)),
	}
}

func TestValidateCoupon(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		mutate     func(c *models.Coupon)
		subtotal   float64
		priorUses  int64
		actorKnown bool
		wantErr    error
	}{
		{
			name:       "valid",
			mutate:     func(c *models.Coupon) {},
			subtotal:   200,
			actorKnown: true,
		},
		{
			name:     "inactive",
			mutate:   func(c *models.Coupon) { c.IsActive = false },
			subtotal: 200,
			wantErr:  ErrInvalidOrExpired,
		},
		{
			name:     "not_started_yet",
			mutate:   func(c *models.Coupon) { c.StartsAt = timePtr(now.Add(time.Hour)) },
			subtotal: 200,
			wantErr:  ErrInvalidOrExpired,
		},
		{
			name:     "expired",
			mutate:   func(c *models.Coupon) { c.ExpiresAt = timePtr(now.Add(-time.Minute)) },
			subtotal: 200,
			wantErr:  ErrInvalidOrExpired,
		},
		{
			name:     "open_ended_window_is_fine",
			mutate:   func(c *models.Coupon) { c.StartsAt = nil; c.ExpiresAt = nil },
			subtotal: 200,
		},
		{
			name: "global_limit_reached",
			mutate: func(c *models.Coupon) {
				c.UsageLimit = 100
				c.UsedCount = 100
			},
			subtotal: 200,
			wantErr:  ErrUsageLimitReached,
		},
		{
			name: "global_limit_not_yet_reached",
			mutate: func(c *models.Coupon) {
				c.UsageLimit = 100
				c.UsedCount = 99
			},
			subtotal: 200,
		},
		{
			name:       "per_user_limit_reached",
			mutate:     func(c *models.Coupon) { c.PerUserLimit = 3 },
			subtotal:   200,
			priorUses:  3,
			actorKnown: true,
			wantErr:    ErrPerUserLimitReached,
		},
		{
			name:       "per_user_limit_below",
			mutate:     func(c *models.Coupon) { c.PerUserLimit = 3 },
			subtotal:   200,
			priorUses:  2,
			actorKnown: true,
		},
		{
			name:       "per_user_limit_skipped_for_unknown_actor",
			mutate:     func(c *models.Coupon) { c.PerUserLimit = 1 },
			subtotal:   200,
			priorUses:  5,
			actorKnown: false,
		},
		{
			name:     "minimum_purchase_not_met",
			mutate:   func(c *models.Coupon) { c.MinimumPurchase = 500 },
			subtotal: 200,
			wantErr:  ErrMinimumPurchaseNotMet,
		},
		{
			name:     "minimum_purchase_exactly_met",
			mutate:   func(c *models.Coupon) { c.MinimumPurchase = 200 },
			subtotal: 200,
		},
		{
			name: "window_check_precedes_usage_limit",
			mutate: func(c *models.Coupon) {
				c.IsActive = false
				c.UsageLimit = 1
				c.UsedCount = 1
			},
			subtotal: 200,
			wantErr:  ErrInvalidOrExpired,
		},
		{
			name: "usage_limit_precedes_minimum_purchase",
			mutate: func(c *models.Coupon) {
				c.UsageLimit = 1
				c.UsedCount = 1
				c.MinimumPurchase = 500
			},
			subtotal: 200,
			wantErr:  ErrUsageLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := activeCoupon()
			tt.mutate(coupon)

			err := ValidateCoupon(coupon, now, tt.subtotal, tt.priorUses, tt.actorKnown)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		want     float64
	}{
		{
			name:     "ten_percent",
			coupon:   models.Coupon{Type: models.CouponTypePercentage, Value: 10},
			subtotal: 200,
			want:     20,
		},
		{
			name:     "percentage_rounds",
			coupon:   models.Coupon{Type: models.CouponTypePercentage, Value: 15},
			subtotal: 99.99,
			want:     15.00,
		},
		{
			name:     "fixed_amount",
			coupon:   models.Coupon{Type: models.CouponTypeFixed, Value: 50},
			subtotal: 200,
			want:     50,
		},
		{
			name:     "percentage_clamped_to_ceiling",
			coupon:   models.Coupon{Type: models.CouponTypePercentage, Value: 50, MaxDiscount: 30},
			subtotal: 200,
			want:     30,
		},
		{
			name:     "fixed_clamped_to_subtotal",
			coupon:   models.Coupon{Type: models.CouponTypeFixed, Value: 500},
			subtotal: 200,
			want:     200,
		},
		{
			name:     "unknown_type_grants_nothing",
			coupon:   models.Coupon{Type: "mystery", Value: 50},
			subtotal: 200,
			want:     0,
		},
		{
			name:     "zero_subtotal",
			coupon:   models.Coupon{Type: models.CouponTypePercentage, Value: 10},
			subtotal: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discount(&tt.coupon, tt.subtotal))
		})
	}
}
