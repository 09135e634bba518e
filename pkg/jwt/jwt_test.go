package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager("test-secret", 15, 168)
	userID := uuid.New().String()

	token, err := manager.GenerateAccessToken(userID, "rin@example.com", "rin", "user")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "rin@example.com", claims.Email)
	assert.Equal(t, "rin", claims.DisplayName)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenTypeEnforced(t *testing.T) {
	manager := NewManager("test-secret", 15, 168)
	userID := uuid.New().String()

	access, err := manager.GenerateAccessToken(userID, "rin@example.com", "rin", "user")
	require.NoError(t, err)
	refresh, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = manager.ValidateRefreshToken(access)
	assert.Error(t, err)

	claims, err := manager.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestWrongSecretRejected(t *testing.T) {
	userID := uuid.New().String()

	token, err := NewManager("secret-a", 15, 168).GenerateAccessToken(userID, "rin@example.com", "rin", "user")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 15, 168).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	manager := NewManager("test-secret", 15, 168)

	_, err := manager.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
