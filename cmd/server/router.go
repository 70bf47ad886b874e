package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/topster/topster-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	h := app.userHandler

	r.Route("/api/users", func(r chi.Router) {
		// Public endpoints
		r.Post("/verification", h.SendVerificationCode)
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)
		r.Get("/oauth/{provider}", h.SocialLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)
			r.Get("/me", h.GetMe)
			r.Patch("/me", h.UpdateMe)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
