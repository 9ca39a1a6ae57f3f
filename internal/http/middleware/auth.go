// Package middleware provides the HTTP middleware for session
// authentication.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/okrhub/okrhub/internal/application/okr"
	"github.com/okrhub/okrhub/internal/domain"
	"github.com/okrhub/okrhub/internal/http/response"
)

type contextKey int

const profileKey contextKey = iota

// CurrentProfile returns the authenticated profile stored in the
// request context by Auth.Validate, or nil outside authenticated
// routes.
func CurrentProfile(ctx context.Context) *domain.UserProfile {
	p, _ := ctx.Value(profileKey).(*domain.UserProfile)
	return p
}

// WithProfile returns a context carrying the given profile. Exposed for
// handler tests.
func WithProfile(ctx context.Context, p *domain.UserProfile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// Auth is HTTP middleware for session token authentication.
type Auth struct {
	resolver okr.ProfileResolver
}

// NewAuth creates a new auth middleware.
func NewAuth(resolver okr.ProfileResolver) *Auth {
	return &Auth{resolver: resolver}
}

// Validate is a chi middleware that resolves the bearer token from the
// Authorization header to a user profile and stores it in the request
// context. Expects format: "Authorization: Bearer <session-token>".
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		profile, err := a.resolver.FindProfileByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				slog.WarnContext(r.Context(), "authentication failed: invalid or expired session token",
					"path", r.URL.Path,
					"method", r.Method)
			} else {
				slog.ErrorContext(r.Context(), "authentication failed: unexpected error",
					"path", r.URL.Path,
					"method", r.Method,
					"error", err)
			}
			response.Unauthorized(w, "invalid or expired session token")
			return
		}

		slog.DebugContext(r.Context(), "authentication successful",
			"path", r.URL.Path,
			"method", r.Method,
			"profile_id", profile.ID)

		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}
