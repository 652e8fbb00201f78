package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"breachguard/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when the service runs without a database.
func RegisterRoutes(app *fiber.App, db *sql.DB, checkSvc service.CheckService) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/check", CheckEmail(checkSvc))
	api.Get("/checks", ListChecks(checkSvc))
}
