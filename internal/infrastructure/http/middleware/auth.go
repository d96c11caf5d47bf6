package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nutriplan/backend/internal/infrastructure/monitoring"
	"github.com/nutriplan/backend/internal/infrastructure/security"
	"github.com/nutriplan/backend/pkg/errors"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// AuthenticateAPI requires a valid bearer token and puts the caller's
// identity on the request context
func AuthenticateAPI(authService *security.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, r, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, r, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			claims, err := authService.ValidateToken(r.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}
			userID, _ := claims.UserID()

			ctx := monitoring.WithUserID(r.Context(), userID)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only callers whose token carries the role. It
// must run after AuthenticateAPI.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, r, errors.NewUnauthorizedError(""))
				return
			}
			if claims.Role != role {
				writeError(w, r, errors.NewForbiddenError("This action requires the "+role+" role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the validated token claims
func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.Claims)
	return claims, ok
}

// writeError renders an AppError in the same envelope the handlers use
func writeError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, monitoring.RequestIDFromContext(r.Context())))
}
