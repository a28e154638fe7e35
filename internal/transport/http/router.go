// Package httptransport assembles the HTTP surface: middleware chain,
// public catalog routes, session-protected routes and admin routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHandler "campushub/internal/auth/handler"
	"campushub/internal/platform/health"
	"campushub/internal/platform/metrics"
	"campushub/internal/platform/middleware"
	registrationHandler "campushub/internal/registration/handler"
)

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(
	auth *authHandler.Handler,
	registrations *registrationHandler.Handler,
	sessions middleware.SessionValidator,
	healthHandler *health.Handler,
	meters *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, meters))
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		// public: login flow and the event catalog
		auth.Register(api)
		registrations.Register(api)

		// any authenticated session
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireSession(sessions, logger))
			auth.RegisterProtected(protected)
			registrations.RegisterProtected(protected)
		})

		// registration managers only
		api.Group(func(admin chi.Router) {
			admin.Use(
				middleware.RequireSession(sessions, logger),
				middleware.RequireRegistrationManager(logger),
			)
			registrations.RegisterAdmin(admin)
		})
	})

	return r
}
