package models

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Slug             string           `gorm:"uniqueIndex" json:"slug"`
	SKU              string           `gorm:"uniqueIndex" json:"sku"`
	Name             string           `json:"name"`
	ShortDescription string           `json:"short_description"`
	LongDescription  string           `json:"long_description"`
	BasePrice        float64          `json:"base_price"`
	ListPrice        float64          `json:"list_price"`
	DiscountPercent  float64          `json:"discount_percent"`
	FinalPrice       float64          `json:"final_price"`
	Currency         string           `json:"currency"`
	Quantity         int              `json:"quantity"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	CommissionRate   float64          `json:"commission_rate"`
	HeroImage        string           `json:"hero_image"`
	SellerID         uuid.UUID        `gorm:"type:uuid;index" json:"seller_id"`
	Seller           *User            `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID       *uuid.UUID       `gorm:"type:uuid" json:"category_id"`
	Category         *Category        `json:"category,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is an optional sellable variation of a product
// (size, volume, bundle). Stock accounting stays on the parent
// product; the variant only overrides price and label.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	SKU       string    `gorm:"uniqueIndex" json:"sku"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// SellingPrice returns the price a buyer pays for the product itself.
func (p *Product) SellingPrice() float64 {
	if p.FinalPrice > 0 {
		return p.FinalPrice
	}
	return p.BasePrice
}
