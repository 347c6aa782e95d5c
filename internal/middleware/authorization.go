package middleware

import (
	"net/http"
	"slices"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the principal holds the ADMIN role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{domain.RoleAdmin}, logger)
}

// RequireRole middleware ensures the principal holds one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authz.FromContext(r.Context())
			if !ok {
				logger.Warn("Principal not found in context")
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.ContainsFunc(allowedRoles, principal.HasRole) {
				logger.Warn("User role not authorized",
					zap.String("user_id", principal.UserID.String()),
					zap.Strings("roles", principal.Roles),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
