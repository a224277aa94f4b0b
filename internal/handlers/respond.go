package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bazaar/internal/checkout"
)

// workflowError translates checkout failures into the structured
// {success:false, error} envelope. Unknown errors are logged and
// reported as a generic failure so no internal detail leaks.
func workflowError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, checkout.ErrAuthenticationRequired):
		status = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, checkout.ErrNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, checkout.ErrInvalidOrExpired),
		errors.Is(err, checkout.ErrUsageLimitReached),
		errors.Is(err, checkout.ErrPerUserLimitReached),
		errors.Is(err, checkout.ErrMinimumPurchaseNotMet):
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, checkout.ErrInsufficientStock),
		errors.Is(err, checkout.ErrInvalidTransition):
		status = fiber.StatusConflict
		message = err.Error()
	default:
		log.Printf("[checkout] unexpected error: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}
