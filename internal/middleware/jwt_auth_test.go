package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: "507f1f77bcf86cd799439011",
		Email:  "dana@motorhub.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func callWithAuth(header string) (*models.JwtCustomClaims, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var claims *models.JwtCustomClaims
	h := JWTAuthMiddleware()(func(c echo.Context) error {
		claims, _ = c.Get("user").(*models.JwtCustomClaims)
		return c.NoContent(http.StatusOK)
	})
	return claims, h(c)
}

func TestJWTAuthAcceptsSignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims, err := callWithAuth("Bearer " + signedToken(t, "test-secret"))
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "dana@motorhub.com", claims.Email)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	_, err := callWithAuth("")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	_, err := callWithAuth("Basic abc123")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := callWithAuth("Bearer " + signedToken(t, "some-other-secret"))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
