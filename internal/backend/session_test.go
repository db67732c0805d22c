package backend

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestSessionClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := Session{Token: signedToken(t, "alice", exp)}

	c, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Username)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(exp.Add(time.Second)))
}

func TestSessionClaimsGarbage(t *testing.T) {
	s := Session{Token: "not-a-jwt"}
	_, err := s.Claims()
	assert.Error(t, err)
	assert.False(t, s.Expired(time.Now()))
}

func TestSessionWithoutExpiry(t *testing.T) {
	s := Session{Token: signedToken(t, "bob", time.Time{})}
	assert.False(t, s.Expired(time.Now().Add(100*365*24*time.Hour)))
}
