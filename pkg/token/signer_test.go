package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmRoundTrip(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateConfirm(42, time.Hour)
	require.NoError(t, err)

	uid, err := s.ParseConfirm(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)
}

func TestExpiredToken(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateConfirm(42, time.Second)
	require.NoError(t, err)

	time.Sleep(2 * time.Second)
	_, err = s.ParseConfirm(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedToken(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateAuth(1, time.Hour)
	require.NoError(t, err)

	_, err = s.ParseAuth(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewSigner("different secret")
	_, err = other.ParseAuth(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A token minted for one flow must not redeem another.
func TestCrossPurposeRejected(t *testing.T) {
	s := NewSigner("secretz")

	confirm, err := s.GenerateConfirm(7, time.Hour)
	require.NoError(t, err)
	reset, err := s.GenerateReset(7, time.Hour)
	require.NoError(t, err)
	auth, err := s.GenerateAuth(7, time.Hour)
	require.NoError(t, err)

	_, err = s.ParseReset(confirm)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.ParseConfirm(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = s.ParseEmailChange(auth)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.ParseAuth(confirm)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmailChangeCarriesAddress(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateEmailChange(9, "new@example.org", time.Hour)
	require.NoError(t, err)

	uid, email, err := s.ParseEmailChange(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(9), uid)
	assert.Equal(t, "new@example.org", email)
}

func TestEmailChangeRequiresAddress(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateEmailChange(9, "", time.Hour)
	require.NoError(t, err)

	_, _, err = s.ParseEmailChange(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetRoundTrip(t *testing.T) {
	s := NewSigner("secretz")
	tok, err := s.GenerateReset(3, time.Hour)
	require.NoError(t, err)

	uid, err := s.ParseReset(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(3), uid)
}
