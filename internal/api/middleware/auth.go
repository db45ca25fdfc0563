package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ClaimsKey contextKey = "claims"
)

const (
	// SessionCookieName is also the header the token is read from.
	SessionCookieName = "Authorization"
	BearerPrefix      = "Bearer "

	// Requests carrying "Client: not-browser" authenticate by header only.
	ClientHeader     = "Client"
	NonBrowserClient = "not-browser"
)

var (
	errMissingToken = errors.New("missing token")
	errBadPrefix    = errors.New("token must use the Bearer scheme")
)

// TokenFromRequest extracts the raw token. The Authorization header wins
// when present or when the client declares itself a non-browser; otherwise
// the session cookie is used. fromCookie reports which source was used.
func TokenFromRequest(r *http.Request) (token string, fromCookie bool, err error) {
	var raw string
	header := r.Header.Get(SessionCookieName)
	if header != "" || r.Header.Get(ClientHeader) == NonBrowserClient {
		raw = header
	} else if cookie, cerr := r.Cookie(SessionCookieName); cerr == nil {
		raw = cookie.Value
		fromCookie = true
	}

	if raw == "" {
		return "", fromCookie, errMissingToken
	}
	if !strings.HasPrefix(raw, BearerPrefix) {
		return "", fromCookie, errBadPrefix
	}
	token = strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix))
	if token == "" {
		return "", fromCookie, errMissingToken
	}
	return token, fromCookie, nil
}

// Auth rejects requests without a valid session token with a 401. A bad
// cookie is cleared so the browser stops sending it.
func Auth(authService *service.AuthService, cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie, err := TokenFromRequest(r)
			if err == nil {
				var claims *service.SessionClaims
				claims, err = authService.ValidateToken(token)
				if err == nil {
					userID, _ := uuid.Parse(claims.UserID)
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					ctx = context.WithValue(ctx, ClaimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("component", "middleware.Auth").
				Bool("from_cookie", fromCookie).
				Msg("authentication failed")

			if fromCookie {
				http.SetCookie(w, ClearSessionCookie(cfg))
			}

			message := "Invalid or expired token"
			if errors.Is(err, errMissingToken) {
				message = "Authentication required"
			}
			response.Error(w, r, http.StatusUnauthorized, message)
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetClaims(ctx context.Context) (*service.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.SessionClaims)
	return claims, ok
}

// SessionCookie carries "Bearer <token>" for the configured session TTL.
func SessionCookie(token string, cfg *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    BearerPrefix + token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL() / time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: cfg.SameSiteMode(),
	}
}

func ClearSessionCookie(cfg *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: cfg.SameSiteMode(),
	}
}
