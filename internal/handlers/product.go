package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/checkout"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
)

// ProductHandler manages catalog product endpoints. Reads are public;
// writes are scoped to the owning seller.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productRequest struct {
	Slug             string  `json:"slug"`
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	BasePrice        float64 `json:"base_price"`
	ListPrice        float64 `json:"list_price"`
	DiscountPercent  float64 `json:"discount_percent"`
	Currency         string  `json:"currency"`
	Quantity         int     `json:"quantity"`
	CommissionRate   float64 `json:"commission_rate"`
	HeroImage        string  `json:"hero_image"`
	CategoryID       string  `json:"category_id"`
}

// ListProducts returns active products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)

	if categoryID := c.Query("category_id"); categoryID != "" {
		if id, err := uuid.Parse(categoryID); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}
	if sellerID := c.Query("seller_id"); sellerID != "" {
		if id, err := uuid.Parse(sellerID); err == nil {
			query = query.Where("seller_id = ?", id)
		}
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if c.QueryBool("in_stock") {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Variants", "is_active = ?", true).
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns one product by id or slug.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	param := c.Params("id")

	query := h.db.Preload("Variants").Preload("Category")
	var product models.Product
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		err = query.First(&product, "id = ?", id).Error
	} else {
		err = query.First(&product, "slug = ?", param).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// CreateProduct creates a product owned by the authenticated seller.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	sellerID, err := h.requireSeller(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.SKU == "" || req.BasePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name, sku and base_price are required")
	}
	if req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
	}

	product := models.Product{
		Slug:             slugify(req.Slug, req.Name),
		SKU:              req.SKU,
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		BasePrice:        req.BasePrice,
		ListPrice:        req.ListPrice,
		DiscountPercent:  req.DiscountPercent,
		FinalPrice:       finalPrice(req.BasePrice, req.DiscountPercent),
		Currency:         req.Currency,
		Quantity:         req.Quantity,
		IsActive:         true,
		CommissionRate:   req.CommissionRate,
		HeroImage:        req.HeroImage,
		SellerID:         sellerID,
	}
	if req.CategoryID != "" {
		if id, err := uuid.Parse(req.CategoryID); err == nil {
			product.CategoryID = &id
		}
	}

	if err := h.db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "slug or sku already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct updates a product the seller owns. Stock changes go
// through RestockProduct so order placement stays the only path that
// decrements quantity.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	sellerID, err := h.requireSeller(c)
	if err != nil {
		return err
	}

	product, err := h.ownedProduct(c, sellerID)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ShortDescription != "" {
		updates["short_description"] = req.ShortDescription
	}
	if req.LongDescription != "" {
		updates["long_description"] = req.LongDescription
	}
	if req.HeroImage != "" {
		updates["hero_image"] = req.HeroImage
	}
	if req.BasePrice > 0 {
		updates["base_price"] = req.BasePrice
		updates["final_price"] = finalPrice(req.BasePrice, req.DiscountPercent)
		updates["discount_percent"] = req.DiscountPercent
	}
	if req.ListPrice > 0 {
		updates["list_price"] = req.ListPrice
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(product).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// RestockProduct adds sellable units to a product.
func (h *ProductHandler) RestockProduct(c *fiber.Ctx) error {
	sellerID, err := h.requireSeller(c)
	if err != nil {
		return err
	}

	product, err := h.ownedProduct(c, sellerID)
	if err != nil {
		return err
	}

	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	if err := h.db.Model(product).
		Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct deactivates a product so existing orders keep their
// references.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	sellerID, err := h.requireSeller(c)
	if err != nil {
		return err
	}

	product, err := h.ownedProduct(c, sellerID)
	if err != nil {
		return err
	}

	if err := h.db.Model(product).Update("is_active", false).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deactivated"})
}

func (h *ProductHandler) requireSeller(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsSeller && !user.IsAdmin {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "seller access required")
	}
	return userID, nil
}

func (h *ProductHandler) ownedProduct(c *fiber.Ctx, sellerID uuid.UUID) (*models.Product, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ? AND seller_id = ?", id, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

func slugify(slug, name string) string {
	source := slug
	if source == "" {
		source = name
	}
	source = strings.ToLower(strings.TrimSpace(source))
	return strings.Join(strings.Fields(source), "-")
}

func finalPrice(base, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return base
	}
	return checkout.Round2(base * (1 - discountPercent/100))
}
