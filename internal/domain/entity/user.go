package entity

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the identity aggregate. The password is stored only as a bcrypt
// hash; there is no plaintext field to read back. Every persisted user has a
// self-follow edge so followed-trade queries include the user's own trades.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	Role         *Role
	Confirmed    bool
	Name         string
	Location     string
	AboutMe      string
	MemberSince  time.Time
	LastSeen     time.Time
	AvatarHash   string
}

// SetPassword hashes the plaintext irreversibly and discards it.
func (u *User) SetPassword(plain string) error {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(b)
	return nil
}

// VerifyPassword compares candidate against the stored hash. bcrypt's
// comparison keeps timing independent of where a mismatch occurs.
func (u *User) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// GravatarHash is the avatar fingerprint: md5 of the lowercased email.
func (u *User) GravatarHash() string {
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return hex.EncodeToString(sum[:])
}

// GravatarURL builds an avatar URL from the cached fingerprint.
func (u *User) GravatarURL(size int) string {
	h := u.AvatarHash
	if h == "" {
		h = u.GravatarHash()
	}
	return "https://secure.gravatar.com/avatar/" + h + "?s=" + strconv.Itoa(size) + "&d=identicon&r=g"
}

// Can reports whether the user's role grants perm.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdministrator reports whether the user's role contains the admin bit.
func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}
