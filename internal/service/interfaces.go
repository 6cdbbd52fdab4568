package service

import (
	"context"

	"pollsvc/internal/domain"
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// ValidateToken validates a bearer token and returns the principal.
	ValidateToken(ctx context.Context, token string) (*domain.UserProfile, error)
}
