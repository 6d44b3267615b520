package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"slotscheduler/internal/delivery/http/controllers"
	"slotscheduler/internal/delivery/http/middleware"
	"slotscheduler/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	availabilityController *controllers.AvailabilityController,
	adminController *controllers.AdminController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Availability
	mux.HandleFunc("GET /availability/slots", auth(availabilityController.List))
	mux.HandleFunc("POST /availability/slots", auth(availabilityController.Create))
	mux.HandleFunc("PUT /availability/slots/{slotID}", auth(availabilityController.Update))
	mux.HandleFunc("DELETE /availability/slots/{slotID}", auth(availabilityController.Delete))

	// Admin
	mux.HandleFunc("GET /admin/users", admin(adminController.ListUsers))
	mux.HandleFunc("GET /admin/availability/{email}", admin(adminController.ListAvailability))
	mux.HandleFunc("PUT /admin/availability/{slotID}", admin(adminController.UpdateSlot))
	mux.HandleFunc("DELETE /admin/availability/{slotID}", admin(adminController.DeleteSlot))
	mux.HandleFunc("POST /slots", admin(adminController.ScheduleSession))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
