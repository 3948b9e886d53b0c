package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

// First-admin bootstrap. Role grants normally require an existing admin, so a
// fresh deployment uses this secret-gated path once to promote the initial
// account. With ADMIN_BOOTSTRAP_SECRET unset the endpoint is disabled.

type BootstrapAdminRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Secret string `json:"secret"`
}

// BootstrapAdmin grants admin or super_admin to an existing account by email.
// POST /auth/bootstrap-admin
func BootstrapAdmin(c echo.Context) error {
	req := new(BootstrapAdminRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !bootstrapAllowed(bootstrapSecret, req.Secret) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "bootstrap disabled or invalid secret"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if req.Role == "" {
		req.Role = string(roles.SuperAdmin)
	}
	target, ok := roles.Parse(req.Role)
	if !ok || (target != roles.Admin && target != roles.SuperAdmin) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or super_admin"})
	}

	ctx := c.Request().Context()
	tag, err := db.Conn.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		SELECT id, $1 FROM users WHERE email = $2
		ON CONFLICT (user_id, role) DO NOTHING
	`, string(target), req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to promote user"})
	}
	if tag.RowsAffected() == 0 {
		// Zero rows is either an unknown email or an already-assigned role.
		var exists bool
		if err := db.Conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists); err != nil || !exists {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "role already assigned", "email": req.Email})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "role granted", "email": req.Email, "role": string(target)})
}

// bootstrapAllowed gates the endpoint: a secret must be configured and the
// presented one must match, compared in constant time.
func bootstrapAllowed(configured, presented string) bool {
	if configured == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}
