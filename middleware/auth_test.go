package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(secret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(Actor(c))
	})
	return app
}

func call(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	status, body := call(t, authApp(""), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
}

func TestAuthAcceptsIssuedToken(t *testing.T) {
	token, err := IssueToken("s3cret", "alice", time.Hour)
	require.NoError(t, err)

	status, body := call(t, authApp("s3cret"), "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body)
}

func TestAuthRejects(t *testing.T) {
	app := authApp("s3cret")
	expired, err := IssueToken("s3cret", "alice", -time.Minute)
	require.NoError(t, err)
	forged, err := IssueToken("other", "alice", time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing": "",
		"scheme":  "Token abc",
		"garbage": "Bearer not.a.jwt",
		"expired": "Bearer " + expired,
		"forged":  "Bearer " + forged,
	} {
		status, _ := call(t, app, header)
		assert.Equal(t, fiber.StatusUnauthorized, status, name)
	}
}

func TestActorFromClaims(t *testing.T) {
	assert.Equal(t, "bob", actorFromClaims(jwt.MapClaims{"sub": "bob"}))
	assert.Equal(t, "carol", actorFromClaims(jwt.MapClaims{"username": "carol", "sub": "x"}))
	assert.Equal(t, "user-42", actorFromClaims(jwt.MapClaims{"user_id": float64(42)}))
	assert.Empty(t, actorFromClaims(jwt.MapClaims{}))
}
