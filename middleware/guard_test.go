package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pranay9392/ecommerce-mernstack-backend/auth"
	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(g *Guard, role Role) (*gin.Engine, *bool) {
	reached := false
	r := gin.New()
	r.GET("/gated", g.Authenticate(), g.RequireRole(role), func(c *gin.Context) {
		reached = true
		c.JSON(http.StatusOK, gin.H{"user": MustClaims(c).UserID})
	})
	return r, &reached
}

func do(t *testing.T, r http.Handler, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body["error"]
}

func TestCheckRole(t *testing.T) {
	assert.NoError(t, CheckRole(models.RoleFlags{}, RoleUser))
	assert.ErrorIs(t, CheckRole(models.RoleFlags{}, RoleAdmin), ErrAdminRequired)
	assert.ErrorIs(t, CheckRole(models.RoleFlags{IsDeliveryAdmin: true}, RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, CheckRole(models.RoleFlags{IsAdmin: true}, RoleDeliveryAdmin), ErrDeliveryAdminRequired)
	assert.NoError(t, CheckRole(models.RoleFlags{IsAdmin: true}, RoleAdmin))
	assert.NoError(t, CheckRole(models.RoleFlags{IsDeliveryAdmin: true}, RoleDeliveryAdmin))
}

func TestGateOrder(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	g := NewGuard(issuer, zap.NewNop())

	plain, err := issuer.Issue("u1", models.RoleFlags{})
	require.NoError(t, err)
	admin, err := issuer.Issue("a1", models.RoleFlags{IsAdmin: true})
	require.NoError(t, err)
	courier, err := issuer.Issue("d1", models.RoleFlags{IsDeliveryAdmin: true})
	require.NoError(t, err)

	t.Run("missing token stops at the first gate", func(t *testing.T) {
		r, reached := newEngine(g, RoleAdmin)
		code, msg := do(t, r, "")
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "No token, authorization denied", msg)
		assert.False(t, *reached)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		r, reached := newEngine(g, RoleUser)
		code, msg := do(t, r, "garbage")
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Token is not valid", msg)
		assert.False(t, *reached)
	})

	t.Run("plain user is refused admin routes", func(t *testing.T) {
		r, reached := newEngine(g, RoleAdmin)
		code, msg := do(t, r, plain)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Access denied. Admin only.", msg)
		assert.False(t, *reached)
	})

	t.Run("plain user is refused delivery routes", func(t *testing.T) {
		r, reached := newEngine(g, RoleDeliveryAdmin)
		code, msg := do(t, r, plain)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Access denied. Delivery admin only.", msg)
		assert.False(t, *reached)
	})

	t.Run("admin is not a delivery admin", func(t *testing.T) {
		r, _ := newEngine(g, RoleDeliveryAdmin)
		code, _ := do(t, r, admin)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("matching roles pass", func(t *testing.T) {
		r, reached := newEngine(g, RoleAdmin)
		code, _ := do(t, r, admin)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, *reached)

		r, reached = newEngine(g, RoleDeliveryAdmin)
		code, _ = do(t, r, courier)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, *reached)

		r, reached = newEngine(g, RoleUser)
		code, _ = do(t, r, plain)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, *reached)
	})
}

func TestExpiredTokenIsRejectedRegardlessOfRole(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issuer := auth.NewTokenIssuer("secret", time.Hour).WithClock(func() time.Time { return issuedAt })
	token, err := issuer.Issue("a1", models.RoleFlags{IsAdmin: true})
	require.NoError(t, err)

	issuer.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	r, reached := newEngine(NewGuard(issuer, zap.NewNop()), RoleAdmin)
	code, msg := do(t, r, token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has expired", msg)
	assert.False(t, *reached)
}

func TestStrictRolesReadTheStoredUser(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	users := store.NewMemoryStore()
	require.NoError(t, users.CreateUser(context.Background(), &models.User{ID: "a1", Email: "a@example.com", IsAdmin: false}))

	// The token still claims admin, but the record no longer does.
	token, err := issuer.Issue("a1", models.RoleFlags{IsAdmin: true})
	require.NoError(t, err)

	r, _ := newEngine(NewGuard(issuer, zap.NewNop()), RoleAdmin)
	code, _ := do(t, r, token)
	assert.Equal(t, http.StatusOK, code, "snapshot mode trusts the token")

	r, reached := newEngine(NewGuard(issuer, zap.NewNop()).WithStrictRoles(users), RoleAdmin)
	code, _ = do(t, r, token)
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, *reached)

	ghost, err := issuer.Issue("nobody", models.RoleFlags{IsAdmin: true})
	require.NoError(t, err)
	code, _ = do(t, r, ghost)
	assert.Equal(t, http.StatusUnauthorized, code)
}
