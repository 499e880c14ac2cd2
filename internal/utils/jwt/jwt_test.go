package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	user := uuid.New()
	token, err := GenerateAccessToken(user, "secret", time.Minute)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user, claims.UserID)
}

func TestVerifyRejects(t *testing.T) {
	user := uuid.New()

	expired, err := GenerateAccessToken(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken(expired, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)

	valid, err := GenerateAccessToken(user, "secret", time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken(valid, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous, err := GenerateAccessToken(uuid.Nil, "secret", time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken(anonymous, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
