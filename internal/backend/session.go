package backend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session carries the bearer token for one logged-in user. It is passed
// explicitly to every authenticated call.
type Session struct {
	Token string
}

// Claims are the fields of the access token the client cares about.
type Claims struct {
	Username  string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Claims decodes the token payload without verifying the signature; the
// backend verifies tokens on every request.
func (s Session) Claims() (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &rc); err != nil {
		return Claims{}, fmt.Errorf("decode access token: %w", err)
	}
	c := Claims{Username: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the token's exp is at or before now.
// Tokens without exp or that cannot be decoded are not treated as expired.
func (s Session) Expired(now time.Time) bool {
	c, err := s.Claims()
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

func (s Session) IsZero() bool { return s.Token == "" }
