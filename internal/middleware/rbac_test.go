package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/omtii/marketplace/internal/roles"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, userID string, roleSet []roles.Role) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("roles", roleSet)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec
}

func TestRequireRolesDeniesMissingRole(t *testing.T) {
	rec := invoke(t, RequireRoles(roles.Vendor), "u1", []roles.Role{roles.Buyer})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	rec := invoke(t, RequireRoles(roles.Vendor), "u1", []roles.Role{roles.Vendor})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesSuperAdminBypass(t *testing.T) {
	rec := invoke(t, RequireRoles(roles.Admin), "u1", []roles.Role{roles.SuperAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesUnauthenticated(t *testing.T) {
	rec := invoke(t, RequireRoles(roles.Buyer), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGuard(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("roles", []roles.Role{roles.Buyer, roles.Vendor})

	handler := AdminGuard(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
