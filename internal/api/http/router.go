package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Departments    *handlers.DepartmentsHandler
	Users          *handlers.UsersHandler
	Meta           *handlers.MetaHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/auth/me", cfg.Auth.Me)

	protected.Get("/meta", cfg.Meta.Options)

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSubAdmin), cfg.Tickets.Delete)
	tickets.Post("/:id/log", auth.RequireRole(domain.RoleAdmin, domain.RoleSubAdmin), cfg.Tickets.AddLogEntry)

	departments := protected.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Departments.Create)
	departments.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Departments.Update)
	departments.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Departments.Delete)
	departments.Get("/:id/users", auth.RequireRole(domain.RoleAdmin, domain.RoleSubAdmin), cfg.Departments.Members)

	users := protected.Group("/users", auth.RequireRole(domain.RoleAdmin, domain.RoleSubAdmin))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Put("/:id/department", auth.RequireRole(domain.RoleAdmin), cfg.Users.AssignDepartment)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/reset", cfg.Admin.Reset)
	admin.Get("/metrics", cfg.Admin.Metrics)
}
