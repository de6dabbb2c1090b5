package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/cirruslabs-it/asset-inventory/internal/auth"
	"github.com/cirruslabs-it/asset-inventory/internal/equipment"
	"github.com/cirruslabs-it/asset-inventory/internal/notification"
	"github.com/cirruslabs-it/asset-inventory/internal/transport/middleware"
	"github.com/cirruslabs-it/asset-inventory/internal/transport/swagger"
	"github.com/cirruslabs-it/asset-inventory/internal/user"
)

// RegisterAllRoutes wires every HTTP route. Path shapes and status codes
// match the original API so existing frontends keep working.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	equipmentHandler *equipment.Handler,
	notificationHandler *notification.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	// Mail utility routes sit at the root, outside the /api prefix.
	router.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)
		r.Post("/send-email", notificationHandler.SendEmail)
		r.Get("/test-email", notificationHandler.TestEmail)
	})

	router.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Post("/users/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)

		// User management is admin only.
		r.Group(func(ar chi.Router) {
			ar.Use(authHandler.AuthMiddleware)
			ar.Use(authHandler.RequireRole(user.RoleAdmin))
			ar.Get("/users", userHandler.ListUsers)
			ar.Post("/users/create", userHandler.CreateUser)
			ar.Put("/users/{id}", userHandler.UpdateUser)
			ar.Delete("/users/{id}", userHandler.DeleteUser)
		})

		r.Route("/equipment", func(er chi.Router) {
			er.Use(authHandler.AuthMiddleware)

			// Aggregate routes register before the {id} wildcard.
			er.Get("/", equipmentHandler.ListEquipment)
			er.Get("/summary", equipmentHandler.GetSummary)
			er.Get("/total-value", equipmentHandler.GetTotalValue)
			er.Get("/expiring-warranty", equipmentHandler.GetExpiringWarranty)
			er.Get("/expiring-warranty/debug", equipmentHandler.GetExpiringWarrantyDebug)
			er.Get("/grouped-by-email", equipmentHandler.GetGroupedByEmail)
			er.Get("/removed", equipmentHandler.GetRemoved)
			er.Get("/count/{category}", equipmentHandler.CountByCategory)
			er.Get("/{id}", equipmentHandler.GetEquipment)

			er.Group(func(wr chi.Router) {
				wr.Use(authHandler.RequireRole(user.RoleAdmin, user.RoleEditor))
				wr.Post("/", equipmentHandler.CreateEquipment)
				wr.Put("/{id}", equipmentHandler.UpdateEquipment)
			})

			er.Group(func(dr chi.Router) {
				dr.Use(authHandler.RequireRole(user.RoleAdmin))
				dr.Delete("/{id}", equipmentHandler.DeleteEquipment)
			})
		})
	})
}
