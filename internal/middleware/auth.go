package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pollsvc/internal/service"
	apperrors "pollsvc/pkg/errors"
	"pollsvc/pkg/logger"
)

// ContextKey represents keys used in request context.
type ContextKey string

const (
	// UserContextKey is the key for the authenticated principal in context.
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the key for the request ID in context.
	RequestIDContextKey ContextKey = "request_id"
)

// OptionalAuth validates a bearer token when one is present and continues
// anonymously when it is not. Voting never requires authentication; an
// authenticated principal only takes top priority in identity resolution.
func OptionalAuth(authService service.AuthService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, apperrors.NewAuthenticationError("Invalid authorization header format"), log)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, apperrors.NewAuthenticationError("Token is required"), log)
				return
			}

			ctx := r.Context()
			profile, err := authService.ValidateToken(ctx, token)
			if err != nil {
				log.WithError(err).Debug("token validation failed")
				writeErrorResponse(w, apperrors.NewAuthenticationError("Invalid or expired token"), log)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeErrorResponse(w http.ResponseWriter, appErr *apperrors.AppError, log *logger.Logger) {
	log.WithError(appErr).Warn("request rejected")

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(response)
}
