package auth

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/apperr"
)

func newTestApp(m *JWTManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *apperr.Error
			if errors.As(err, &e) {
				return c.Status(e.Status()).JSON(fiber.Map{"error": e.Message, "code": e.Code()})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	app.Get("/me", AuthMiddleware(m), func(c *fiber.Ctx) error {
		claims, ok := GetClaimsFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"userId": claims.UserID, "local": c.Locals("userID")})
	})
	app.Get("/admin", AuthMiddleware(m), RequireRole("Admin"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authorization string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddleware(t *testing.T) {
	m := newTestManager(t)
	app := newTestApp(m)

	token, err := m.GenerateToken(testUser(), []string{"User"})
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(42), body["userId"])
	assert.Equal(t, float64(42), body["local"])

	status, body = doRequest(t, app, "/me", "bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doRequest(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body["code"])

	status, _ = doRequest(t, app, "/me", "Token "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = doRequest(t, app, "/me", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid token", body["error"])
}

func TestAuthMiddlewareExpired(t *testing.T) {
	m := newTestManager(t)
	app := newTestApp(m)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken(testUser(), nil)
	require.NoError(t, err)
	m.now = time.Now

	status, body := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestRequireRole(t *testing.T) {
	m := newTestManager(t)
	app := newTestApp(m)

	user, err := m.GenerateToken(testUser(), []string{"User"})
	require.NoError(t, err)
	admin, err := m.GenerateToken(testUser(), []string{"User", "Admin"})
	require.NoError(t, err)

	status, body := doRequest(t, app, "/admin", "Bearer "+user)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = doRequest(t, app, "/admin", "Bearer "+admin)
	assert.Equal(t, fiber.StatusOK, status)
}
