package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Customers *handlers.CustomersHandler
	Agents    *handlers.AgentsHandler
	Tickets   *handlers.TicketsHandler
	Reports   *handlers.ReportsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	customers := app.Group("/customers")
	customers.Post("/", cfg.Customers.Register)
	customers.Get("/", cfg.Customers.List)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Delete("/:id", cfg.Customers.Delete)
	customers.Get("/:id/tickets", cfg.Customers.Tickets)

	agents := app.Group("/agents")
	agents.Post("/", cfg.Agents.Register)
	agents.Get("/", cfg.Agents.List)
	agents.Get("/available", cfg.Agents.ListAvailable)
	agents.Get("/:id", cfg.Agents.Get)
	agents.Put("/:id", cfg.Agents.Update)
	agents.Delete("/:id", cfg.Agents.Delete)
	agents.Post("/:id/skills", cfg.Agents.AddSkill)
	agents.Get("/:id/skills", cfg.Agents.Skills)
	agents.Delete("/:id/skills/:categoryId", cfg.Agents.RemoveSkill)
	agents.Put("/:id/availability", cfg.Agents.SetAvailability)
	agents.Get("/:id/performance", cfg.Agents.Performance)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/resolve", cfg.Tickets.Resolve)
	tickets.Post("/:id/close", cfg.Tickets.Close)
	tickets.Put("/:id/escalate", cfg.Tickets.Escalate)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Get("/:id/messages", cfg.Tickets.Messages)

	reports := app.Group("/reports")
	reports.Get("/top-agents", cfg.Reports.TopAgents)
	reports.Get("/category-performance", cfg.Reports.CategoryPerformance)
	reports.Get("/monthly-volume", cfg.Reports.MonthlyVolume)
}
