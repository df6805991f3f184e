package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/akr0407/nuxt-base-project/internal/auth"
	"github.com/akr0407/nuxt-base-project/internal/rbac"
	"github.com/akr0407/nuxt-base-project/internal/settings"
	"github.com/akr0407/nuxt-base-project/internal/tenant"
	"github.com/akr0407/nuxt-base-project/internal/transport/middleware"
	"github.com/akr0407/nuxt-base-project/internal/transport/swagger"
	"github.com/akr0407/nuxt-base-project/internal/user"
)

// RegisterAllRoutes wires every handler under /api/v1 with the auth gate
// applied: AuthMiddleware authenticates, RequirePermission authorizes per
// route. Tenant CRUD is super-admin territory except for listing.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	rbacHandler *rbac.Handler,
	tenantHandler *tenant.Handler,
	settingsHandler *settings.Handler,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.json", swagger.ServeDocument)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.Refresh)
			sr.Post("/logout", authHandler.Logout)
			sr.Post("/register", authHandler.Register)

			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/me", authHandler.Me)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.With(authHandler.RequirePermission("users:read")).Get("/", userHandler.List)
				ur.With(authHandler.RequirePermission("users:read")).Get("/{id}", userHandler.Get)
				ur.With(authHandler.RequirePermission("users:create")).Post("/", userHandler.Create)
				ur.With(authHandler.RequirePermission("users:update")).Put("/{id}", userHandler.Update)
				ur.With(authHandler.RequirePermission("users:delete")).Delete("/{id}", userHandler.Delete)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(authHandler.RequirePermission("roles:read")).Get("/", rbacHandler.ListRoles)
				rr.With(authHandler.RequirePermission("roles:read")).Get("/{id}", rbacHandler.GetRole)
				rr.With(authHandler.RequirePermission("roles:create")).Post("/", rbacHandler.CreateRole)
				rr.With(authHandler.RequirePermission("roles:update")).Put("/{id}", rbacHandler.UpdateRole)
				rr.With(authHandler.RequirePermission("roles:delete")).Delete("/{id}", rbacHandler.DeleteRole)
			})

			pr.With(authHandler.RequirePermission("permissions:read")).
				Get("/permissions", rbacHandler.ListPermissions)

			pr.Route("/tenants", func(tr chi.Router) {
				tr.Get("/", tenantHandler.List)
				tr.With(authHandler.RequirePermission("tenants:read")).Get("/{id}", tenantHandler.Get)
				tr.With(authHandler.RequireSuperAdmin).Post("/", tenantHandler.Create)
				tr.With(authHandler.RequireSuperAdmin).Put("/{id}", tenantHandler.Update)
				tr.With(authHandler.RequireSuperAdmin).Delete("/{id}", tenantHandler.Delete)
			})

			pr.Route("/settings", func(sr chi.Router) {
				sr.With(authHandler.RequirePermission("settings:read")).Get("/theme", settingsHandler.GetTheme)
				sr.With(authHandler.RequirePermission("settings:update")).Put("/theme", settingsHandler.UpdateTheme)

				sr.Route("/theme-templates", func(ttr chi.Router) {
					ttr.With(authHandler.RequirePermission("settings:read")).Get("/", settingsHandler.ListTemplates)
					ttr.With(authHandler.RequirePermission("settings:update")).Post("/", settingsHandler.CreateTemplate)
					ttr.With(authHandler.RequirePermission("settings:update")).Delete("/{id}", settingsHandler.DeleteTemplate)
				})
			})
		})
	})
}
