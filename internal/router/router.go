package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whisperbox-dev/whisperbox/internal/metrics"
	mw "github.com/whisperbox-dev/whisperbox/internal/middleware"
	rl "github.com/whisperbox-dev/whisperbox/internal/middleware/ratelimiter"
	"github.com/whisperbox-dev/whisperbox/internal/setup"
)

// New creates and configures the router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// setup CORS for frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.Public.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, nothing to load
	apiCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, apiCSP))

	r.Use(metrics.Middleware)

	h := deps.Handler

	r.Get("/v1/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(auth chi.Router) {
		// Email sending endpoint (signup re-sends the code on every call)
		auth.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.New(1.0/10.0, 1, 1*time.Hour), mw.GetIP)) // 1 per 10 sec by IP
			g.Post("/signup", h.Signup)
		})

		// Code verification (stricter limits to prevent brute force)
		auth.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.New(5.0/600.0, 5, 1*time.Hour), mw.GetIP)) // 5 attempts per 10 minutes by IP
			g.Post("/verify", h.VerifyCode)
		})

		// Login endpoint (separate rate limiting)
		auth.Group(func(g chi.Router) {
			g.Use(mw.RateLimit(rl.New(1, 1, 1*time.Hour), mw.GetIP)) // 1 per second by IP
			g.Post("/signin", h.Signin)
		})

		// Logout (no rate limits)
		auth.Post("/signout", h.Signout)
	})

	// Signed-in account routes
	r.Route("/v1/account", func(account chi.Router) {
		account.Use(mw.Auth(deps.Jwt))
		account.Use(mw.RateLimit(rl.New(100, 100, 1*time.Hour), mw.GetAccountFromContext)) // 100 RPS per account

		account.Get("/accept-messages", h.GetAcceptMessages)
		account.Post("/accept-messages", h.SetAcceptMessages)
		account.Get("/messages", h.GetMessages)
	})

	// Anonymous message delivery
	r.Group(func(g chi.Router) {
		g.Use(mw.RateLimit(rl.New(1, 3, 1*time.Hour), mw.GetIP)) // burst of 3, then 1 per second by IP
		g.Post("/v1/u/{username}/messages", h.SendMessage)
	})

	return r
}
