package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-gateway/internal/api/http/handlers"
	"github.com/spec-kit/catalog-gateway/internal/auth"
	apperrors "github.com/spec-kit/catalog-gateway/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Products *handlers.ProductsHandler
	Gate     *auth.Gate
	Metrics  fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Post("/auth", cfg.Auth.Login)
	app.Get("/products", cfg.Gate.Handle, cfg.Products.List)

	app.Use(func(*fiber.Ctx) error {
		return apperrors.NewNotFound("route not found")
	})
}
