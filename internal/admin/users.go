package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

// UserRow is a moderation listing entry: profile plus the full role set.
type UserRow struct {
	ID          string       `json:"id"`
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	AccountType string       `json:"account_type"`
	Phone       string       `json:"phone"`
	Bio         string       `json:"bio"`
	AvatarURL   string       `json:"avatar_url"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	Roles       []roles.Role `json:"roles"`
}

// ListUsers returns all users newest first, each with its role set.
// GET /admin/users
func ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := db.Conn.Query(ctx, `
		SELECT id, full_name, email, account_type, phone, bio, avatar_url, is_active, created_at
		FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list users"})
	}
	defer rows.Close()

	users := []UserRow{}
	index := map[string]int{}
	for rows.Next() {
		var u UserRow
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.AccountType, &u.Phone, &u.Bio,
			&u.AvatarURL, &u.IsActive, &u.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse user record"})
		}
		u.Roles = []roles.Role{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	rows.Close()

	roleRows, err := db.Conn.Query(ctx, `SELECT user_id, role FROM user_roles`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list roles"})
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID, role string
		if err := roleRows.Scan(&userID, &role); err != nil {
			continue
		}
		if i, ok := index[userID]; ok {
			if parsed, ok := roles.Parse(role); ok {
				users[i].Roles = append(users[i].Roles, parsed)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

type updateUserRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// UpdateUser edits another user's profile fields. PATCH /admin/users/:id
func UpdateUser(c echo.Context) error {
	userID := c.Param("id")

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		UPDATE users
		SET full_name = COALESCE(NULLIF($1, ''), full_name),
		    phone = COALESCE(NULLIF($2, ''), phone),
		    bio = COALESCE(NULLIF($3, ''), bio)
		WHERE id = $4
	`, req.FullName, req.Phone, req.Bio, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user updated successfully"})
}

// DeleteUser removes a user; roles, services, requests, and messages cascade.
// DELETE /admin/users/:id
func DeleteUser(c echo.Context) error {
	actorID, _ := c.Get("user_id").(string)
	userID := c.Param("id")
	if userID == actorID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}

// SuspendUser blocks a user from logging in. POST /admin/users/:id/suspend
func SuspendUser(c echo.Context) error {
	return setUserActive(c, false)
}

// ActivateUser lifts a suspension. POST /admin/users/:id/activate
func ActivateUser(c echo.Context) error {
	return setUserActive(c, true)
}

func setUserActive(c echo.Context, active bool) error {
	tag, err := db.Conn.Exec(c.Request().Context(),
		`UPDATE users SET is_active = $1 WHERE id = $2`, active, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if active {
		return c.JSON(http.StatusOK, echo.Map{"message": "user activated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user suspended"})
}
