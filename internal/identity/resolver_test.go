package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	resolver := NewJWTResolver("test-secret")

	token, err := resolver.Sign(42, time.Minute)
	require.NoError(t, err)

	userID, err := resolver.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyEmptyToken(t *testing.T) {
	resolver := NewJWTResolver("test-secret")

	_, err := resolver.Verify("")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestVerifyGarbageToken(t *testing.T) {
	resolver := NewJWTResolver("test-secret")

	_, err := resolver.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	resolver := NewJWTResolver("test-secret")

	token, err := resolver.Sign(42, -time.Minute)
	require.NoError(t, err)

	_, err = resolver.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTResolver("secret-a").Sign(42, time.Minute)
	require.NoError(t, err)

	_, err = NewJWTResolver("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
