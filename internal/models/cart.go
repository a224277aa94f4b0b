package models

import "github.com/google/uuid"

// Cart status values. A cart is created lazily on the first
// add-to-cart, completed when an order is placed from it, and merged
// when an anonymous cart is folded into a user cart at login.
const (
	CartStatusActive    = "active"
	CartStatusCompleted = "completed"
	CartStatusMerged    = "merged"
)

// Cart belongs to exactly one authenticated user or one anonymous
// session, never both.
type Cart struct {
	BaseModel
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	SessionID *string    `gorm:"index" json:"session_id"`
	Status    string     `gorm:"default:'active';index" json:"status"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type CartItem struct {
	BaseModel
	CartID        uuid.UUID       `gorm:"type:uuid;index" json:"cart_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Product       *Product        `json:"product,omitempty"`
	VariantID     *uuid.UUID      `gorm:"type:uuid" json:"variant_id"`
	Variant       *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     float64         `json:"unit_price"`
	SavedForLater bool            `gorm:"default:false" json:"saved_for_later"`
}
