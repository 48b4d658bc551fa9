package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func protectedEndpoint(role string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(testSecret)(RequireRole(role)(ok))
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"role": "commissioner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	protectedEndpoint("commissioner").ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
	protectedEndpoint("commissioner").ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	token := signedToken(t, []byte("other-secret"), jwt.MapClaims{
		"role": "commissioner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	protectedEndpoint("commissioner").ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"role": "commissioner",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	protectedEndpoint("commissioner").ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"role": "spectator",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/seasons/1/schedule", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	protectedEndpoint("commissioner").ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleFromContextWithoutClaims(t *testing.T) {
	_, err := RoleFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.Error(t, err)
}
