package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/checkout"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, checkoutSvc *checkout.Service) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)
	orderHandler := handlers.NewOrderHandler(db, checkoutSvc)
	couponHandler := handlers.NewCouponHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Cart and checkout accept either a Bearer token or an anonymous
	// session header; checkout itself insists on an authenticated
	// actor inside the workflow.
	actorScoped := api.Group("", middleware.ActorMiddleware(cfg))
	actorScoped.Get("/cart", cartHandler.GetCart)
	actorScoped.Post("/cart/items", cartHandler.AddItem)
	actorScoped.Put("/cart/items/:id", cartHandler.UpdateItem)
	actorScoped.Delete("/cart/items/:id", cartHandler.RemoveItem)
	actorScoped.Post("/checkout", checkoutHandler.PlaceOrder)
	actorScoped.Post("/checkout/coupon-preview", checkoutHandler.PreviewCoupon)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	protected.Put("/orders/:id/status", orderHandler.UpdateStatus)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)

	// Seller surface
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Post("/products/:id/restock", productHandler.RestockProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	// Admin surface
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Put("/categories/:id", catalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", catalogHandler.DeleteCategory)

	protected.Post("/coupons", couponHandler.CreateCoupon)
	protected.Get("/coupons", couponHandler.ListCoupons)
	protected.Get("/coupons/:id", couponHandler.GetCoupon)
	protected.Put("/coupons/:id", couponHandler.UpdateCoupon)
	protected.Delete("/coupons/:id", couponHandler.DeleteCoupon)

	protected.Get("/admin/stats", adminHandler.DashboardStats)
}
