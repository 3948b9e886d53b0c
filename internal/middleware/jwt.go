package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/omtii/marketplace/internal/auth"
	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

var logger = zap.NewNop()

// Init wires the package logger.
func Init(l *zap.Logger) {
	if l != nil {
		logger = l.Named("middleware")
	}
}

// loadRoles resolves the user's role set from storage. A var so tests can
// exercise the middleware without a database.
var loadRoles = func(ctx context.Context, userID string) ([]roles.Role, error) {
	rows, err := db.Conn.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := []roles.Role{}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			continue
		}
		if parsed, ok := roles.Parse(r); ok {
			set = append(set, parsed)
		}
	}
	return set, rows.Err()
}

// JWT authenticates the request and resolves the caller's live role set.
// Roles are read from storage on every request rather than trusted from the
// token, so grants and revocations apply immediately.
func JWT(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid Authorization header"})
		}

		claims, err := auth.ParseToken(authHeader[len(prefix):])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		ctx := c.Request().Context()
		if auth.IsTokenRevoked(ctx, claims.ID) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
		}

		roleSet, err := loadRoles(ctx, claims.UserID)
		if err != nil {
			// Degrade to an empty set rather than failing the request:
			// role-gated routes deny, everything else still works.
			logger.Warn("failed to load user roles",
				zap.String("user_id", claims.UserID), zap.Error(err))
			roleSet = []roles.Role{}
		}

		c.Set("user_id", claims.UserID)
		c.Set("roles", roleSet)
		c.Set("jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		return next(c)
	}
}
