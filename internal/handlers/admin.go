package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin console.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if err := requireAdmin(h.db, userID); err != nil {
		return err
	}

	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var todayRevenue float64
	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := h.db.Model(&models.Order{}).
		Where("status != ? AND placed_at >= ?", models.OrderStatusCancelled, startOfDay).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	var couponDiscountTotal float64
	if err := h.db.Model(&models.CouponUsage{}).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&couponDiscountTotal).Error; err != nil {
		return err
	}

	var lowStock []models.Product
	if err := h.db.Where("is_active = ? AND quantity <= ?", true, 5).
		Order("quantity asc").
		Limit(10).
		Find(&lowStock).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":           totalUsers,
			"total_orders":          totalOrders,
			"orders_by_status":      ordersByStatus,
			"total_revenue":         totalRevenue,
			"today_revenue":         todayRevenue,
			"coupon_discount_total": couponDiscountTotal,
			"low_stock_products":    lowStock,
		},
	})
}
