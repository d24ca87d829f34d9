// Package jwtx signs and verifies the EdDSA session tokens handed to the
// task-pane panel after login.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for panel session tokens. Panels
// stay open for a working day, so this leans longer than a typical API token.
const DefaultSessionTTL = 12 * time.Hour

var (
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the session-token claims. Subject carries the account ID, SID
// the revocable session row the token is bound to.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID; logout revokes the matching session row.
	SID string `json:"sid,omitempty"`

	// Email of the authenticated account, for panel display only.
	Email string `json:"email,omitempty"`

	// DisplayName of the authenticated account, for panel display only.
	DisplayName string `json:"display_name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session token.
func NewSessionClaims(
	subject, sid, email, displayName, issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        sid,
		},
		SID:         sid,
		Email:       email,
		DisplayName: displayName,
	}
}

// ValidateIssuer checks the issuer claim against the expected value.
// Empty expected means "don't care".
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
