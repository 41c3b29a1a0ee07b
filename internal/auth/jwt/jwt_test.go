package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/lokal/internal/common/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(config.JWTConfig{Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(config.JWTConfig{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(config.JWTConfig{SecretKey: testSecret})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestService_GenerateAndValidate(t *testing.T) {
	s, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	tok, exp, err := s.GenerateToken("u-42", "alice@lokal.app")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.UserID)
	assert.Equal(t, "alice@lokal.app", claims.Email)
}

func TestService_ExpiredAndInvalid(t *testing.T) {
	s, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Minute})
	require.NoError(t, err)

	tok, _, err := s.GenerateToken("u-1", "bob@lokal.app")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewService(config.JWTConfig{SecretKey: testSecret + "x", Duration: time.Minute})
	require.NoError(t, err)
	_, err = other.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_State(t *testing.T) {
	s, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	state, err := s.GenerateState("google", "nonce-1")
	require.NoError(t, err)
	assert.NoError(t, s.ValidateState(state, "google"))
	assert.ErrorIs(t, s.ValidateState(state, "facebook"), ErrInvalidToken)

	// a state value is not a session token
	_, err = s.ValidateToken(state)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(StateTTL + time.Minute) }
	assert.ErrorIs(t, s.ValidateState(state, "google"), ErrExpiredToken)
}
