package auth

import (
	"context"
	"fmt"

	"pollsvc/internal/domain"
	"pollsvc/internal/service"
	apperrors "pollsvc/pkg/errors"
	"pollsvc/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Service validates HMAC-signed bearer tokens.
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service.
func NewService(secret string, logger *logger.Logger) service.AuthService {
	return &Service{secret: []byte(secret), logger: logger}
}

// ValidateToken parses and validates a JWT and extracts the principal.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.UserProfile, error) {
	if len(s.secret) == 0 {
		return nil, apperrors.NewAuthenticationError("Authentication is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("token validation failed")
		return nil, apperrors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.NewAuthenticationError("Invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperrors.NewAuthenticationError("Token is missing the subject claim")
	}

	profile := &domain.UserProfile{Sub: sub}
	if email, ok := claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		profile.Name = name
	}

	return profile, nil
}
