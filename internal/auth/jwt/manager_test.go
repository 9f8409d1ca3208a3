package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager("test-secret", "test", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateTokenPair(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair("op-1", "admin@example.com", "admin")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.Equal(t, int64(900), m.AccessExpirySeconds())
}

func TestValidateToken(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair("op-1", "admin@example.com", "super")
	require.NoError(t, err)

	claims, err := m.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "super", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateToken_Invalid(t *testing.T) {
	m := testManager()

	_, err := m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewManager("test-secret", "test", -time.Minute, 7*24*time.Hour)

	pair, err := m.GenerateTokenPair("op-1", "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair("op-1", "admin@example.com", "admin")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "admin", claims.Role)
}

func TestRefreshAccessToken_Invalid(t *testing.T) {
	m := testManager()

	_, err := m.RefreshAccessToken("garbage")
	assert.Error(t, err)
}

func TestValidateToken_DifferentSecrets(t *testing.T) {
	m1 := testManager()
	m2 := NewManager("another-secret", "test", 15*time.Minute, 7*24*time.Hour)

	pair, err := m1.GenerateTokenPair("op-1", "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = m2.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
