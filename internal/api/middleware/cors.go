package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/logging"
)

// CORS allows the configured client origins to send the session cookie.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", ClientHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RateLimit limits requests per client IP. Disabled when the configured
// request count is zero.
func RateLimit(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().
				Str("component", "middleware.RateLimit").
				Str("path", r.URL.Path).
				Msg("rate limit exceeded")
			response.Error(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}
