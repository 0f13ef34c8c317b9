package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{
		"sub":         "user-1",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"email":       "ada@example.com",
		"exp":         exp.Unix(),
	})

	s, err := FromToken(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", s.UserID)
	require.Equal(t, "Ada Lovelace", s.FullName())
	require.Equal(t, "ada@example.com", s.Email)
	require.False(t, s.Expired(time.Now()))
	require.True(t, s.Expired(exp.Add(time.Minute)))
}

func TestFromTokenGarbage(t *testing.T) {
	_, err := FromToken("not-a-jwt")
	require.Error(t, err)
}

func TestNoExpiryNeverExpires(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "user-2"})
	s, err := FromToken(raw)
	require.NoError(t, err)
	require.False(t, s.Expired(time.Now().Add(24*365*time.Hour)))
}
