package middleware

import (
	"net/http"
	"strings"

	"shop-admin/internal/authz"

	"go.uber.org/zap"
)

// TokenAuthenticator turns a bearer token into the caller's principal
type TokenAuthenticator interface {
	Authenticate(token string) (*authz.Principal, error)
}

// AuthMiddleware requires a valid bearer token and puts its principal in the request context
func AuthMiddleware(auth TokenAuthenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Debug("Missing or malformed authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			principal, err := auth.Authenticate(token)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", principal.UserID.String()),
				zap.Strings("roles", principal.Roles),
			)

			recordPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuthMiddleware attaches the principal when a valid token is sent and lets anonymous requests through.
// Invalid tokens are still refused.
func OptionalAuthMiddleware(auth TokenAuthenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	required := AuthMiddleware(auth, logger)
	return func(next http.Handler) http.Handler {
		withAuth := required(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			withAuth.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
