package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer produces and verifies the signed, time-limited tokens used for
// account confirmation, password reset, email change and API auth. Each
// purpose carries its own claim shape plus a purpose tag, so a token minted
// for one flow can never redeem another.
type Signer struct {
	secret []byte
}

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

const (
	purposeConfirm     = "confirm"
	purposeReset       = "reset"
	purposeEmailChange = "change_email"
	purposeAuth        = "auth"
)

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

type confirmClaims struct {
	Purpose string `json:"purpose"`
	Confirm int64  `json:"confirm"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	Purpose string `json:"purpose"`
	Reset   int64  `json:"reset"`
	jwt.RegisteredClaims
}

type emailChangeClaims struct {
	Purpose     string `json:"purpose"`
	ChangeEmail int64  `json:"change_email"`
	NewEmail    string `json:"new_email"`
	jwt.RegisteredClaims
}

type authClaims struct {
	Purpose string `json:"purpose"`
	ID      int64  `json:"id"`
	jwt.RegisteredClaims
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Signer) parse(tokenStr string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}

// GenerateConfirm issues an account-confirmation token for userID.
func (s *Signer) GenerateConfirm(userID int64, ttl time.Duration) (string, error) {
	return s.sign(&confirmClaims{Purpose: purposeConfirm, Confirm: userID, RegisteredClaims: registered(ttl)})
}

// ParseConfirm returns the user id bound to a confirmation token.
func (s *Signer) ParseConfirm(tokenStr string) (int64, error) {
	claims := &confirmClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return 0, err
	}
	if claims.Purpose != purposeConfirm {
		return 0, ErrInvalidToken
	}
	return claims.Confirm, nil
}

// GenerateReset issues a password-reset token for userID.
func (s *Signer) GenerateReset(userID int64, ttl time.Duration) (string, error) {
	return s.sign(&resetClaims{Purpose: purposeReset, Reset: userID, RegisteredClaims: registered(ttl)})
}

// ParseReset returns the user id bound to a reset token.
func (s *Signer) ParseReset(tokenStr string) (int64, error) {
	claims := &resetClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return 0, err
	}
	if claims.Purpose != purposeReset {
		return 0, ErrInvalidToken
	}
	return claims.Reset, nil
}

// GenerateEmailChange issues a token binding userID to the address it wants
// to move to. The new address travels inside the signed payload so the
// redeeming request cannot substitute another.
func (s *Signer) GenerateEmailChange(userID int64, newEmail string, ttl time.Duration) (string, error) {
	return s.sign(&emailChangeClaims{Purpose: purposeEmailChange, ChangeEmail: userID, NewEmail: newEmail, RegisteredClaims: registered(ttl)})
}

// ParseEmailChange returns the user id and new address bound to the token.
func (s *Signer) ParseEmailChange(tokenStr string) (int64, string, error) {
	claims := &emailChangeClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return 0, "", err
	}
	if claims.Purpose != purposeEmailChange || claims.NewEmail == "" {
		return 0, "", ErrInvalidToken
	}
	return claims.ChangeEmail, claims.NewEmail, nil
}

// GenerateAuth issues an API auth token for userID with a caller-supplied TTL.
func (s *Signer) GenerateAuth(userID int64, ttl time.Duration) (string, error) {
	return s.sign(&authClaims{Purpose: purposeAuth, ID: userID, RegisteredClaims: registered(ttl)})
}

// ParseAuth returns the user id carried by an auth token.
func (s *Signer) ParseAuth(tokenStr string) (int64, error) {
	claims := &authClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return 0, err
	}
	if claims.Purpose != purposeAuth {
		return 0, ErrInvalidToken
	}
	return claims.ID, nil
}
