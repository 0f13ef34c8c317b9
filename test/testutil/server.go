package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/testserver"
)

// Token signs a throwaway identity token for the given user. The reference
// server only reads the claims, any secret works.
func Token(t *testing.T, userID, firstName, lastName string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         userID,
		"given_name":  firstName,
		"family_name": lastName,
		"email":       userID + "@example.com",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// StartServer runs the in-process reference backend and returns its base
// URL.
func StartServer(t *testing.T) (string, *testserver.Server) {
	t.Helper()
	server := testserver.New()
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer.URL, server
}

// ClientFor builds an API client acting as the given user.
func ClientFor(t *testing.T, baseURL, userID, firstName, lastName string) *api.Client {
	t.Helper()
	return api.New(baseURL, Token(t, userID, firstName, lastName))
}
