package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the HTTP surface. Public reads need no session; the
// account, onboarding, profile and donation routes require one.
func NewRouter(app *handlers.App, cfg *infra.Config, lookup middleware.CountryLookup) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Locale("en", lookup))
	r.Use(middleware.Logger(app.Log))
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/auth/session", app.CreateSession)

	r.Get("/v1/profiles", app.ListProfiles)
	r.Get("/v1/profiles/{handle}", app.GetProfile)
	r.Get("/v1/donations/aggregates/{profileID}", app.GetAggregates)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(app.JWTSecret))

		r.Get("/v1/account", app.GetAccount)
		r.Post("/v1/onboarding", app.CompleteOnboarding)
		r.Put("/v1/profile", app.UpdateProfile)
		r.Post("/v1/donations", app.CreateDonation)
		r.Get("/v1/donations", app.ListDonations)
	})

	return r
}
