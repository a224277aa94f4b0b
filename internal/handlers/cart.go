package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/checkout"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
)

// CartHandler manages cart endpoints for authenticated users and
// anonymous sessions alike.
type CartHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{db: db, cfg: cfg}
}

func cartOwnerScope(query *gorm.DB, actor checkout.Actor) *gorm.DB {
	if actor.Authenticated() {
		return query.Where("user_id = ?", actor.UserID)
	}
	return query.Where("session_id = ?", actor.SessionID)
}

// activeCart finds the actor's active cart, creating it lazily when
// create is set.
func (h *CartHandler) activeCart(tx *gorm.DB, actor checkout.Actor, create bool) (*models.Cart, error) {
	var cart models.Cart
	err := cartOwnerScope(tx.Where("status = ?", models.CartStatusActive), actor).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) || !create {
		return nil, err
	}

	cart = models.Cart{Status: models.CartStatusActive}
	if actor.Authenticated() {
		userID := actor.UserID
		cart.UserID = &userID
	} else {
		sessionID := actor.SessionID
		cart.SessionID = &sessionID
	}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart returns the actor's active cart with a totals preview.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !actor.Known() {
		return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
	}

	var cart models.Cart
	err := cartOwnerScope(h.db.Where("status = ?", models.CartStatusActive), actor).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"success": true, "data": nil})
		}
		return err
	}

	lines := make([]checkout.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.SavedForLater {
			continue
		}
		lines = append(lines, checkout.Line{UnitPrice: checkout.ItemUnitPrice(item), Quantity: item.Quantity})
	}
	totals := checkout.ComputeTotals(lines, h.cfg.TaxRate, h.cfg.ShippingFlatFee, 0)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"cart":   cart,
			"totals": totals,
		},
	})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to the actor's cart, creating the cart on
// first use. Adding a product already in the cart bumps its quantity.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !actor.Known() {
		return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	var cart *models.Cart
	var item models.CartItem

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return err
		}

		unitPrice := product.SellingPrice()
		var variantID *uuid.UUID
		if req.VariantID != "" {
			id, err := uuid.Parse(req.VariantID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid variant_id")
			}
			var variant models.ProductVariant
			if err := tx.First(&variant, "id = ? AND product_id = ?", id, product.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "variant not found")
				}
				return err
			}
			variantID = &variant.ID
			if variant.Price > 0 {
				unitPrice = variant.Price
			}
		}

		if product.Quantity < req.Quantity {
			return checkout.ErrInsufficientStock
		}

		cart, err = h.activeCart(tx, actor, true)
		if err != nil {
			return err
		}

		itemQuery := tx.Where("cart_id = ? AND product_id = ? AND saved_for_later = ?",
			cart.ID, product.ID, false)
		if variantID != nil {
			itemQuery = itemQuery.Where("variant_id = ?", *variantID)
		} else {
			itemQuery = itemQuery.Where("variant_id IS NULL")
		}

		if err := itemQuery.First(&item).Error; err == nil {
			item.Quantity += req.Quantity
			item.UnitPrice = unitPrice
			return tx.Save(&item).Error
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			VariantID: variantID,
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		if errors.Is(err, checkout.ErrInsufficientStock) {
			return workflowError(c, err)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"cart_id": cart.ID, "item": item},
	})
}

type updateCartItemRequest struct {
	Quantity      int   `json:"quantity"`
	SavedForLater *bool `json:"saved_for_later"`
}

// UpdateItem changes an item's quantity or toggles saved-for-later.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !actor.Known() {
		return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.ownedItem(actor, itemID)
	if err != nil {
		return err
	}

	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	if req.SavedForLater != nil {
		item.SavedForLater = *req.SavedForLater
	}
	if err := h.db.Save(item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// RemoveItem deletes an item from the actor's active cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if !actor.Known() {
		return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	item, err := h.ownedItem(actor, itemID)
	if err != nil {
		return err
	}

	if err := h.db.Delete(item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "item removed"})
}

func (h *CartHandler) ownedItem(actor checkout.Actor, itemID uuid.UUID) (*models.CartItem, error) {
	cart, err := h.activeCart(h.db, actor, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "cart not found")
		}
		return nil, err
	}

	var item models.CartItem
	if err := h.db.First(&item, "id = ? AND cart_id = ?", itemID, cart.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "cart item not found")
		}
		return nil, err
	}
	return &item, nil
}

// mergeGuestCart folds an anonymous session cart into the user's
// active cart: quantities for matching product/variant lines are
// summed, remaining lines move over, and the guest cart is marked
// merged. Called at login; a missing guest cart is not an error.
func mergeGuestCart(db *gorm.DB, sessionID string, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var guest models.Cart
		err := tx.Preload("Items").
			Where("session_id = ? AND status = ?", sessionID, models.CartStatusActive).
			First(&guest).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var target models.Cart
		err = tx.Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
			First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			target = models.Cart{UserID: &userID, Status: models.CartStatusActive}
			if err := tx.Create(&target).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, guestItem := range guest.Items {
			query := tx.Where("cart_id = ? AND product_id = ? AND saved_for_later = ?",
				target.ID, guestItem.ProductID, guestItem.SavedForLater)
			if guestItem.VariantID != nil {
				query = query.Where("variant_id = ?", *guestItem.VariantID)
			} else {
				query = query.Where("variant_id IS NULL")
			}

			var existing models.CartItem
			if err := query.First(&existing).Error; err == nil {
				existing.Quantity += guestItem.Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				if err := tx.Delete(&guestItem).Error; err != nil {
					return err
				}
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := tx.Model(&models.CartItem{}).
				Where("id = ?", guestItem.ID).
				Update("cart_id", target.ID).Error; err != nil {
				return err
			}
		}

		return tx.Model(&guest).Update("status", models.CartStatusMerged).Error
	})
}
