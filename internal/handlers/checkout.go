package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/checkout"
	"github.com/example/bazaar/internal/middleware"
)

// CheckoutHandler exposes the order placement workflow.
type CheckoutHandler struct {
	svc *checkout.Service
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type placeOrderRequest struct {
	CartID            string `json:"cart_id"`
	ShippingAddressID string `json:"shipping_address_id"`
	BillingAddressID  string `json:"billing_address_id"`
	PaymentMethod     string `json:"payment_method"`
	CouponCode        string `json:"coupon_code"`
	Notes             string `json:"notes"`
}

// PlaceOrder submits the checkout for the authenticated user.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart_id")
	}
	shippingID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid shipping_address_id")
	}
	if req.PaymentMethod == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payment_method is required")
	}

	input := checkout.PlaceOrderInput{
		CartID:            cartID,
		ShippingAddressID: shippingID,
		PaymentMethod:     req.PaymentMethod,
		CouponCode:        req.CouponCode,
		Notes:             req.Notes,
	}
	if req.BillingAddressID != "" {
		billingID, err := uuid.Parse(req.BillingAddressID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid billing_address_id")
		}
		input.BillingAddressID = &billingID
	}

	result, err := h.svc.PlaceOrder(c.Context(), actor, input)
	if err != nil {
		return workflowError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order":       result.Order,
			"order_items": result.Items,
		},
	})
}

type previewCouponRequest struct {
	CartID     string `json:"cart_id"`
	CouponCode string `json:"coupon_code"`
}

// PreviewCoupon runs the coupon evaluator against the actor's cart
// without recording a redemption.
func (h *CheckoutHandler) PreviewCoupon(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	var req previewCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart_id")
	}
	if req.CouponCode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "coupon_code is required")
	}

	snapshot, err := h.svc.LoadSnapshot(c.Context(), cartID, actor)
	if err != nil {
		return workflowError(c, err)
	}

	coupon, discount, err := h.svc.EvaluateCoupon(c.Context(), req.CouponCode, actor, snapshot.Subtotal())
	if err != nil {
		return workflowError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"code":     coupon.Code,
			"discount": discount,
			"subtotal": snapshot.Subtotal(),
		},
	})
}
