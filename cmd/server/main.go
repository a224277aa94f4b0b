package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/bazaar/internal/checkout"
	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/database"
	"github.com/example/bazaar/internal/metrics"
	"github.com/example/bazaar/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	var appMetrics *metrics.Metrics
	if cfg.OTLPEndpoint != "" {
		m, shutdown, err := metrics.Init(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			log.Printf("metrics init failed, continuing without: %v", err)
		} else {
			appMetrics = m
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("metrics shutdown: %v", err)
				}
			}()
		}
	}

	checkoutSvc := checkout.NewService(db, checkout.Config{
		TaxRate:           cfg.TaxRate,
		ShippingFlatFee:   cfg.ShippingFlatFee,
		OrderNumberPrefix: cfg.OrderNumberPrefix,
		Currency:          cfg.Currency,
	}, appMetrics)

	app := fiber.New(fiber.Config{
		AppName: "Bazaar Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, checkoutSvc)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
