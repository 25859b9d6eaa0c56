// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saakcy7/kindfund/internal/api/handler"
	apimw "github.com/saakcy7/kindfund/internal/api/middleware"
)

// RouterOptions configures cross-cutting HTTP behaviour.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimiter    *apimw.RateLimiter // nil disables submission rate limiting
	TrustProxy     bool               // Take the client IP from forwarding headers
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(donationHandler *handler.DonationHandler, logger *slog.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID) // Add a request ID to the context
	if opts.TrustProxy {
		r.Use(middleware.RealIP) // Forwarding headers are client-controlled unless a proxy sets them
	}
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Bound every request
	r.Use(apimw.CORS(opts.AllowedOrigins))

	// Health / status endpoints
	r.Get("/", donationHandler.GetStatus)
	r.Get("/health", donationHandler.GetStatus)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", donationHandler.GetConfig)
		r.Get("/donations", donationHandler.GetDonations)
		r.With(opts.RateLimiter.Handler).Post("/donations", donationHandler.RecordDonation)
	})

	logger.Debug("Routes registered", "rate_limited", opts.RateLimiter != nil, "trust_proxy", opts.TrustProxy)
	return r
}
