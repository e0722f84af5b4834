package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	m := newManager(t)

	pair, err := m.GeneratePair("u1", "alice")
	require.NoError(t, err)

	claims, err := m.ValidateToken(pair.Access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	claims, err = m.ValidateToken(pair.Refresh, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestValidateToken_RejectsWrongType(t *testing.T) {
	m := newManager(t)
	pair, err := m.GeneratePair("u1", "alice")
	require.NoError(t, err)

	_, err = m.ValidateToken(pair.Refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrTokenType)

	_, err = m.ValidateToken(pair.Access, TokenRefresh)
	assert.ErrorIs(t, err, ErrTokenType)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	m := newManager(t)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken("u1", "alice", TokenAccess)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token, TokenAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	other, err := NewTokenManager("another-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	token, err := other.GenerateToken("u1", "alice", TokenAccess)
	require.NoError(t, err)

	_, err = newManager(t).ValidateToken(token, TokenAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	_, err := newManager(t).ValidateToken("not-a-token", TokenAccess)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}
