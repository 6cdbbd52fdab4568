package auth

import (
	"context"
	"testing"
	"time"

	"pollsvc/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return NewService(secret, log).(*Service)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := newTestService(t, testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "voter@example.com",
		"name":  "Voter",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	profile, err := svc.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", profile.Sub)
	assert.Equal(t, "voter@example.com", profile.Email)
	assert.Equal(t, "Voter", profile.Name)
}

func TestValidateTokenOptionalClaims(t *testing.T) {
	svc := newTestService(t, testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	profile, err := svc.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", profile.Sub)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Name)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := newTestService(t, testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage token",
			token: "not-a-token",
		},
		{
			name: "wrong secret",
			token: signToken(t, "other-secret", jwt.MapClaims{
				"sub": "user-123",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "expired token",
			token: signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-123",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "missing subject",
			token: signToken(t, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.ValidateToken(context.Background(), tt.token)
			assert.Error(t, err)
			assert.Nil(t, profile)
		})
	}
}

func TestValidateTokenUnconfiguredSecret(t *testing.T) {
	svc := newTestService(t, "")

	tokenString := signToken(t, testSecret, jwt.MapClaims{"sub": "user-123"})
	_, err := svc.ValidateToken(context.Background(), tokenString)
	assert.Error(t, err)
}
