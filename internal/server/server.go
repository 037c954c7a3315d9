package server

import (
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// NewApp assembles the Fiber application: middleware, site routes and the
// product API, with errors funnelled through handlers.ErrorHandler.
func NewApp(productService *services.ProductService, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(recover.New())

	handlers.RegisterSiteRoutes(app)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(app)

	return app
}
