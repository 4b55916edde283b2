package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndVerifyPassword(t *testing.T) {
	u := &User{Username: "nikos"}
	require.NoError(t, u.SetPassword("correct horse"))

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "correct horse")
	assert.True(t, u.VerifyPassword("correct horse"))
	assert.False(t, u.VerifyPassword("wrong horse"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	a := &User{}
	b := &User{}
	require.NoError(t, a.SetPassword("same"))
	require.NoError(t, b.SetPassword("same"))
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

func TestGravatarHash(t *testing.T) {
	u := &User{Email: "student@utdallas.edu"}
	shouting := &User{Email: "STUDENT@UTDALLAS.EDU"}

	assert.Len(t, u.GravatarHash(), 32)
	assert.Equal(t, u.GravatarHash(), shouting.GravatarHash())

	other := &User{Email: "someone@else.org"}
	assert.NotEqual(t, u.GravatarHash(), other.GravatarHash())
}

func TestGravatarURL(t *testing.T) {
	u := &User{Email: "student@utdallas.edu"}
	url := u.GravatarURL(256)
	assert.Contains(t, url, "https://secure.gravatar.com/avatar/"+u.GravatarHash())
	assert.Contains(t, url, "s=256")

	// a cached fingerprint wins over recomputing
	u.AvatarHash = "cafebabe"
	assert.Contains(t, u.GravatarURL(64), "/avatar/cafebabe?")
}
