package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Timeline       *handlers.TimelineHandler
	Share          *handlers.ShareHandler
	Roles          *handlers.RolesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	// Unauthenticated: the token itself is the capability.
	app.Get("/share/:token", cfg.Share.Read)

	app.Get("/roles/:role/capabilities", cfg.Roles.Capabilities)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id/status", auth.RequireCapability(domain.CapMutateTicket), cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/assignee", auth.RequireCapability(domain.CapMutateTicket), cfg.Tickets.Assign)
	tickets.Get("/:id/timeline", cfg.Timeline.GetTimeline)
	tickets.Post("/:id/comments", cfg.Timeline.AddComment)
	tickets.Post("/:id/share-links", auth.RequireCapability(domain.CapIssueShareLink), cfg.Share.Issue)

	app.Delete("/share-links/:token", cfg.AuthMiddleware.Handle,
		auth.RequireCapability(domain.CapIssueShareLink), cfg.Share.Revoke)
}
