package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the identity the login redirect handed back. The token is
// attached to every request for the whole session; the claims only matter
// for showing who the current user is.
type Session struct {
	Token     string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	ExpiresAt time.Time
}

type claims struct {
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// FromToken parses the identity provider's bearer token. The signature is
// the provider's concern and is not verified here; the claims are only
// used for display and expiry checks.
func FromToken(token string) (*Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &claims{})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, fmt.Errorf("unexpected token claims")
	}
	s := &Session{
		Token:     token,
		UserID:    c.Subject,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Email:     c.Email,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

func (s *Session) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Expired reports whether the token already lapsed; a zero expiry means
// the provider issued a non-expiring token.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
