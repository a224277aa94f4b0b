package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon discount types.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon is a discount rule identified by a code. Zero-valued limits
// mean "no limit"; a zero MaxDiscount means "no ceiling".
type Coupon struct {
	BaseModel
	Code            string     `gorm:"uniqueIndex" json:"code"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Value           float64    `json:"value"`
	MinimumPurchase float64    `json:"minimum_purchase"`
	MaxDiscount     float64    `json:"max_discount"`
	UsageLimit      int        `json:"usage_limit"`
	PerUserLimit    int        `json:"per_user_limit"`
	UsedCount       int        `json:"used_count"`
	StartsAt        *time.Time `json:"starts_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
}

// CouponUsage records one successful redemption. Rows are only ever
// inserted, never updated.
type CouponUsage struct {
	BaseModel
	CouponID       uuid.UUID `gorm:"type:uuid;index" json:"coupon_id"`
	UserID         uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	OrderID        uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	DiscountAmount float64   `json:"discount_amount"`
}
