package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/utils"
)

// CouponHandler manages coupon administration.
type CouponHandler struct {
	db *gorm.DB
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{db: db}
}

type couponRequest struct {
	Code            string     `json:"code"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Value           float64    `json:"value"`
	MinimumPurchase float64    `json:"minimum_purchase"`
	MaxDiscount     float64    `json:"max_discount"`
	UsageLimit      int        `json:"usage_limit"`
	PerUserLimit    int        `json:"per_user_limit"`
	StartsAt        *time.Time `json:"starts_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        *bool      `json:"is_active"`
}

func (r *couponRequest) validate() error {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if r.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if r.Type != models.CouponTypePercentage && r.Type != models.CouponTypeFixed {
		return fiber.NewError(fiber.StatusBadRequest, "type must be percentage or fixed")
	}
	if r.Value <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "value must be positive")
	}
	if r.Type == models.CouponTypePercentage && r.Value > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "percentage value cannot exceed 100")
	}
	if r.StartsAt != nil && r.ExpiresAt != nil && r.ExpiresAt.Before(*r.StartsAt) {
		return fiber.NewError(fiber.StatusBadRequest, "expires_at precedes starts_at")
	}
	return nil
}

// CreateCoupon creates a coupon. Admin only.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	coupon := models.Coupon{
		Code:            req.Code,
		Description:     req.Description,
		Type:            req.Type,
		Value:           req.Value,
		MinimumPurchase: req.MinimumPurchase,
		MaxDiscount:     req.MaxDiscount,
		UsageLimit:      req.UsageLimit,
		PerUserLimit:    req.PerUserLimit,
		StartsAt:        req.StartsAt,
		ExpiresAt:       req.ExpiresAt,
		IsActive:        true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := h.db.Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "coupon code already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": coupon})
}

// ListCoupons returns all coupons. Admin only.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		return err
	}

	var coupons []models.Coupon
	if err := h.db.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    coupons,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetCoupon returns one coupon with its redemption history. Admin only.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	var usages []models.CouponUsage
	if err := h.db.Where("coupon_id = ?", coupon.ID).
		Order("created_at desc").
		Find(&usages).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"coupon": coupon, "usages": usages},
	})
}

// UpdateCoupon updates a coupon. Once a coupon has been redeemed its
// terms are frozen; only activity toggling is allowed.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if coupon.UsedCount > 0 {
		if req.IsActive == nil {
			return fiber.NewError(fiber.StatusConflict, "coupon already in use; only is_active may change")
		}
		if err := h.db.Model(&coupon).Update("is_active", *req.IsActive).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "data": coupon})
	}

	if err := req.validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"code":             req.Code,
		"description":      req.Description,
		"type":             req.Type,
		"value":            req.Value,
		"minimum_purchase": req.MinimumPurchase,
		"max_discount":     req.MaxDiscount,
		"usage_limit":      req.UsageLimit,
		"per_user_limit":   req.PerUserLimit,
		"starts_at":        req.StartsAt,
		"expires_at":       req.ExpiresAt,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.db.Model(&coupon).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "coupon code already exists")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupon})
}

// DeleteCoupon removes a coupon that has never been redeemed. Admin only.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	if coupon.UsedCount > 0 {
		return fiber.NewError(fiber.StatusConflict, "coupon already in use; deactivate it instead")
	}

	if err := h.db.Delete(&coupon).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "coupon deleted"})
}
