package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sailors-platform/sailor-api/internal/config"
	"github.com/sailors-platform/sailor-api/internal/handler"
	"github.com/sailors-platform/sailor-api/internal/middleware"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SupportHandler           *handler.SupportHandler
	AdminSupportHandler      *handler.AdminSupportHandler
	AdminNotificationHandler *handler.AdminNotificationHandler
	AdminActivityHandler     *handler.AdminActivityHandler
	AdminUserHandler         *handler.AdminUserHandler
	UploadHandler            *handler.UploadHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Submission is open to anonymous callers; identity is attached when a
	// bearer token accompanies the request.
	if deps.SupportHandler != nil {
		support := api.Group("/support", middleware.JWTOptional(cfg.JWTSecret))
		deps.SupportHandler.RegisterPublic(support)

		mine := api.Group("/support/my-requests", middleware.JWTProtected(cfg.JWTSecret), middleware.RequireAuthenticated())
		deps.SupportHandler.RegisterMine(mine)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", middleware.JWTProtected(cfg.JWTSecret), middleware.RequireAuthenticated())
		deps.UploadHandler.Register(uploads)
	}

	admin := api.Group("/admin", middleware.JWTProtected(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))

	if deps.AdminSupportHandler != nil {
		deps.AdminSupportHandler.Register(admin.Group("/support"))
	}
	if deps.AdminNotificationHandler != nil {
		deps.AdminNotificationHandler.Register(admin.Group("/notifications"))
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activity-logs"))
	}
	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(admin.Group("/users"))
	}
}
