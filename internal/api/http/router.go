package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Onboarding     *handlers.OnboardingHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/forgot-password", cfg.Users.ForgotPassword)
	users.Put("/reset-password/:token", cfg.Users.ResetPassword)
	users.Get("/google", cfg.Users.GoogleRedirect)
	users.Get("/google/callback", cfg.Users.GoogleCallback)

	profile := users.Group("", cfg.AuthMiddleware.Handle)
	profile.Get("/get-profile", cfg.Users.GetProfile)
	profile.Put("/user-profile", cfg.Users.UpdateProfile)
	profile.Delete("/delete-account", cfg.Users.DeleteAccount)

	userAdmin := users.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	userAdmin.Get("/get-all", cfg.Users.GetAll)
	userAdmin.Delete("/delete-user/:id", cfg.Users.DeleteUser)
	users.Post("/create-admin", cfg.AuthMiddleware.Handle, auth.RequireSuperAdmin(), cfg.Users.CreateAdmin)

	onboarding := app.Group("/onboarding", cfg.AuthMiddleware.Handle)
	onboarding.Post("/submit", cfg.Onboarding.Submit)
	onboarding.Put("/update", cfg.Onboarding.Update)
	onboarding.Get("/me", cfg.Onboarding.GetOwn)

	// Admin routes. /all registers before /:id so the static path wins.
	onboardingAdmin := onboarding.Group("", auth.RequireAdmin())
	onboardingAdmin.Get("/all", cfg.Onboarding.List)
	onboardingAdmin.Get("/:id", cfg.Onboarding.Get)
	onboardingAdmin.Patch("/:id/status", cfg.Onboarding.UpdateStatus)
	onboardingAdmin.Delete("/admin/:id", cfg.Onboarding.Delete)

	events := app.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Get("/:id", cfg.Events.Get)

	eventsAdmin := events.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	eventsAdmin.Post("/", cfg.Events.Create)
	eventsAdmin.Put("/:id", cfg.Events.Update)
	eventsAdmin.Delete("/:id", cfg.Events.Delete)
}
