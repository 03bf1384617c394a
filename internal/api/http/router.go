package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/observability"
)

// APIPrefix is the root of every JSON route.
const APIPrefix = "/api"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Departments *handlers.DepartmentHandler
	Metrics     *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Asset routes must be registered afterwards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group(APIPrefix)
	departments := api.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Put("/:id", cfg.Departments.Update)
	departments.Delete("/:id", cfg.Departments.Delete)

	// Use matches on a plain prefix, so /apiary lands here too and must
	// fall through to the asset routes.
	api.Use(func(c *fiber.Ctx) error {
		if !isAPIPath(c.Path()) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})
}

func isAPIPath(path string) bool {
	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/")
}
