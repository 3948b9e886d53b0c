package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/omtii/marketplace/internal/auth"
	"github.com/omtii/marketplace/internal/config"
	"github.com/omtii/marketplace/internal/roles"
)

func authedRequest(t *testing.T, userID string) *http.Request {
	t.Helper()
	auth.Configure(config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1})
	token, err := auth.IssueToken(userID)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestJWTRoleLoadFailureIsLoggedAndDegrades(t *testing.T) {
	orig := loadRoles
	defer func() { loadRoles = orig }()
	loadRoles = func(ctx context.Context, userID string) ([]roles.Role, error) {
		return nil, errors.New("connection refused")
	}

	core, logs := observer.New(zap.WarnLevel)
	Init(zap.New(core))
	defer Init(zap.NewNop())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(authedRequest(t, "u1"), rec)

	var seenRoles []roles.Role
	handler := JWT(func(c echo.Context) error {
		seenRoles, _ = c.Get("roles").([]roles.Role)
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))

	// The request still goes through, carrying an empty (not nil) role set.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, seenRoles)
	assert.Empty(t, seenRoles)

	// And the failure leaves a trace.
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to load user roles", logs.All()[0].Message)
}

func TestJWTSetsResolvedRoles(t *testing.T) {
	orig := loadRoles
	defer func() { loadRoles = orig }()
	loadRoles = func(ctx context.Context, userID string) ([]roles.Role, error) {
		return []roles.Role{roles.Vendor}, nil
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(authedRequest(t, "u2"), rec)

	handler := JWT(func(c echo.Context) error {
		roleSet, _ := c.Get("roles").([]roles.Role)
		assert.Equal(t, []roles.Role{roles.Vendor}, roleSet)
		uid, _ := c.Get("user_id").(string)
		assert.Equal(t, "u2", uid)
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
