package routes

import (
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	limiterStorage fiber.Storage,
	leadHandler *handlers.LeadHandler,
	healthHandler *handlers.HealthHandler,
) {
	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")

	// Health: per-IP limit, no auth
	api.Get("/health", middleware.RateLimiter(cfg, limiterStorage), healthHandler.Check)

	// Leads: JWT first so the limiter can key on the owner
	leads := api.Group("/leads",
		middleware.JWTProtected(cfg),
		middleware.RequireOwner(),
		middleware.RateLimiter(cfg, limiterStorage),
	)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.Get)
	leads.Put("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "Route not found"})
	})
}
