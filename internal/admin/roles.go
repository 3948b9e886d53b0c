package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

// GrantRole assigns a role to a user. Duplicate grants are a no-op (role
// sets, not lists). Only a super_admin actor may grant super_admin; the
// check runs before any write reaches the store.
// POST /admin/users/:id/roles
func GrantRole(c echo.Context) error {
	actorRoles, _ := c.Get("roles").([]roles.Role)
	userID := c.Param("id")

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	target, ok := roles.Parse(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	if !roles.CanManage(actorRoles, target) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super admins can grant the super_admin role"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, string(target))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to grant role"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "role already assigned"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "role granted"})
}

// RevokeRole removes a role assignment, under the same super_admin policy.
// DELETE /admin/users/:id/roles/:role
func RevokeRole(c echo.Context) error {
	actorRoles, _ := c.Get("roles").([]roles.Role)
	userID := c.Param("id")

	target, ok := roles.Parse(c.Param("role"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	if !roles.CanManage(actorRoles, target) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only super admins can revoke the super_admin role"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		DELETE FROM user_roles WHERE user_id = $1 AND role = $2
	`, userID, string(target))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to revoke role"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "role not assigned"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "role revoked"})
}
