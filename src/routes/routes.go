package routes

import (
	"github.com/gofiber/fiber/v2"

	"auction-engine/src/config"
	"auction-engine/src/handlers"
	"auction-engine/src/middleware"
)

func SetupRoutes(app *fiber.App, cfg *config.Config, auctionHandler *handlers.AuctionHandler) {
	serviceAvailability := middleware.DefaultServiceAvailability()
	app.Use(serviceAvailability.Middleware())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api/v1")

	if !cfg.RateLimit.Disabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window.Duration)
		api.Use(rateLimiter.Middleware())
	}

	api.Post("/auctions", auctionHandler.SettleAuction)
	api.Get("/auctions/:id", auctionHandler.GetRun)
	api.Get("/auctions/:id/journal", auctionHandler.GetJournal)

	app.Get("/health", auctionHandler.HealthCheck)
	app.Get("/metrics", auctionHandler.Metrics)
}
