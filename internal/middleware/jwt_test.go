package middleware_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/middleware"
)

const jwtTestSecret = "test-secret"

func jwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.SendString(fmt.Sprintf("counselor=%d", middleware.CounselorID(c)))
	})
	return app
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	app := jwtTestApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsWrongSecret(t *testing.T) {
	app := jwtTestApp()

	token := signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{"sub": "3"})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredToken(t *testing.T) {
	app := jwtTestApp()

	token := signToken(t, jwt.SigningMethodHS256, jwtTestSecret, jwt.MapClaims{
		"sub": "3",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedExtractsCounselorID(t *testing.T) {
	app := jwtTestApp()

	token := signToken(t, jwt.SigningMethodHS256, jwtTestSecret, jwt.MapClaims{"sub": "42"})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "counselor=42", string(body))
}
