package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/authz"
	"github.com/omtii/marketplace/internal/roles"
)

// RequireRoles gates a route behind a role requirement, applying the shared
// authorization decision (super_admin bypasses any requirement).
// Usage: route(..., RequireRoles(roles.Vendor))
func RequireRoles(required ...roles.Role) echo.MiddlewareFunc {
	requirement := authz.Requirement{RequireAuth: true, Roles: required}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			roleSet, _ := c.Get("roles").([]roles.Role)

			state := authz.State{
				Authenticated: userID != "",
				Roles:         roleSet,
			}

			switch authz.Decide(state, requirement) {
			case authz.Allow:
				return next(c)
			case authz.RedirectLogin:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			default:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
		}
	}
}

// AdminGuard restricts a route to admins. super_admin passes implicitly.
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRoles(roles.Admin)(next)
}
