package handlers

import (
	_ "embed"
	"errors"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var indexPage []byte

// RegisterSiteRoutes registers the index page, the health check and the
// error-handler probe.
func RegisterSiteRoutes(router fiber.Router) {
	router.Get("/", HandleIndex)
	router.Get("/health", HandleHealth)
	router.Get("/cause-error", HandleCauseError)
}

// HandleIndex serves the static administration page.
func HandleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexPage)
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "OK",
	})
}

// HandleCauseError panics so the recovery path and the 500 response can be
// exercised end to end.
func HandleCauseError(_ *fiber.Ctx) error {
	panic(errors.New("deliberate failure triggered by /cause-error"))
}
