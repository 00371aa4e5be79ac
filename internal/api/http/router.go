package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deca109/TaskFlow.ai/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Metrics         *handlers.MetricsHandler
	Recommendations *handlers.RecommendationsHandler
	Assignments     *handlers.AssignmentsHandler
	Directory       *handlers.DirectoryHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Show)

	app.Get("/recommend/:taskId", cfg.Recommendations.Recommend)

	app.Post("/assign", cfg.Assignments.Assign)
	app.Get("/assignments", cfg.Assignments.List)
	app.Get("/assignments/:id", cfg.Assignments.Get)
	app.Put("/assignments/:id/complete", cfg.Assignments.Complete)

	app.Get("/tasks", cfg.Directory.ListTasks)
	app.Post("/tasks", cfg.Directory.CreateTask)
	app.Get("/tasks/:id", cfg.Directory.GetTask)

	app.Get("/employees", cfg.Directory.ListEmployees)
	app.Post("/employees", cfg.Directory.CreateEmployee)
	app.Get("/employees/:id", cfg.Directory.GetEmployee)

	app.Get("/skills", cfg.Directory.ListSkills)
}
