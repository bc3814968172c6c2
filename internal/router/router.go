package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sanad-app/sanad-go-api/internal/config"
	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler  *handler.StudentHandler
	AnalysisHandler *handler.AnalysisHandler
	PlanHandler     *handler.PlanHandler
	AlertHandler    *handler.AlertHandler
	UploadHandler   *handler.UploadHandler
	SeedHandler     *handler.SeedHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)

		if deps.UploadHandler != nil {
			deps.UploadHandler.Register(students)
		}
		if deps.AnalysisHandler != nil {
			deps.AnalysisHandler.RegisterStudentRoutes(students)
		}

		grades := api.Group("/grades", jwtMiddleware)
		deps.StudentHandler.RegisterGrades(grades)
	}

	if deps.AnalysisHandler != nil {
		analysis := api.Group("/analysis", jwtMiddleware)
		deps.AnalysisHandler.Register(analysis)
	}

	if deps.PlanHandler != nil {
		plans := api.Group("/plans", jwtMiddleware)
		deps.PlanHandler.Register(plans)
	}

	if deps.AlertHandler != nil {
		alerts := api.Group("/alerts", jwtMiddleware)
		deps.AlertHandler.Register(alerts)
	}

	if deps.SeedHandler != nil {
		seed := api.Group("/seed")
		deps.SeedHandler.Register(seed)
	}
}
