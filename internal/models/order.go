package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending           = "pending"
	OrderStatusPaymentProcessing = "payment_processing"
	OrderStatusConfirmed         = "confirmed"
	OrderStatusShipped           = "shipped"
	OrderStatusDelivered         = "delivered"
	OrderStatusCancelled         = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// orderTransitions lists the allowed next statuses for each status.
// delivered is terminal; returns are a separate workflow that reads
// orders but never re-enters this machine.
var orderTransitions = map[string][]string{
	OrderStatusPending:           {OrderStatusPaymentProcessing, OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusPaymentProcessing: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:         {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:           {OrderStatusDelivered},
	OrderStatusDelivered:         {},
	OrderStatusCancelled:         {},
}

// CanTransitionOrderStatus reports whether an order may move from one
// status to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is the durable record of a completed checkout. Totals are
// frozen at creation; only the status fields change afterwards.
type Order struct {
	BaseModel
	OrderNumber       string      `gorm:"uniqueIndex" json:"order_number"`
	UserID            uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User              *User       `json:"user,omitempty"`
	Status            string      `gorm:"default:'pending'" json:"status"`
	PaymentStatus     string      `gorm:"default:'pending'" json:"payment_status"`
	PaymentMethod     string      `json:"payment_method"`
	PlacedAt          time.Time   `json:"placed_at"`
	Subtotal          float64     `json:"subtotal"`
	TaxAmount         float64     `json:"tax_amount"`
	ShippingFee       float64     `json:"shipping_fee"`
	DiscountAmount    float64     `json:"discount_amount"`
	TotalAmount       float64     `json:"total_amount"`
	Currency          string      `json:"currency"`
	CouponID          *uuid.UUID  `gorm:"type:uuid" json:"coupon_id"`
	ShippingAddressID uuid.UUID   `gorm:"type:uuid" json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID  `gorm:"type:uuid" json:"billing_address_id"`
	Notes             string      `json:"notes"`
	Items             []OrderItem `json:"items,omitempty"`
}

// OrderItem freezes product name, SKU and unit price at placement
// time. Immutable after creation except for Status and Returned.
type OrderItem struct {
	BaseModel
	OrderID          uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID        uuid.UUID  `gorm:"type:uuid;index" json:"product_id"`
	VariantID        *uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	SellerID         uuid.UUID  `gorm:"type:uuid;index" json:"seller_id"`
	ProductName      string     `json:"product_name"`
	SKU              string     `json:"sku"`
	VariantLabel     string     `json:"variant_label"`
	Quantity         int        `json:"quantity"`
	UnitPrice        float64    `json:"unit_price"`
	LineTotal        float64    `json:"line_total"`
	TaxAmount        float64    `json:"tax_amount"`
	ShippingAmount   float64    `json:"shipping_amount"`
	CommissionAmount float64    `json:"commission_amount"`
	Status           string     `gorm:"default:'pending'" json:"status"`
	Returned         bool       `gorm:"default:false" json:"returned"`
}
