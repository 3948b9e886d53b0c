package user

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
)

// GetPublicProfile returns the public subset of a user's profile.
// GET /user/:id/profile
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var (
		fullName, accountType, avatarURL, bio string
		createdAt                             time.Time
	)
	err := db.Conn.QueryRow(c.Request().Context(), `
		SELECT full_name, account_type, avatar_url, bio, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&fullName, &accountType, &avatarURL, &bio, &createdAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":           userID,
		"full_name":    fullName,
		"account_type": accountType,
		"avatar_url":   avatarURL,
		"bio":          bio,
		"member_since": createdAt.UTC().Format(time.RFC3339),
	})
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile lets the authenticated user edit their own profile fields.
// Empty fields are left untouched. PATCH /user/profile
func UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE users
		SET full_name = COALESCE(NULLIF($1, ''), full_name),
		    phone = COALESCE(NULLIF($2, ''), phone),
		    bio = COALESCE(NULLIF($3, ''), bio),
		    avatar_url = COALESCE(NULLIF($4, ''), avatar_url)
		WHERE id = $5
	`
	_, err := db.Conn.Exec(c.Request().Context(), query, req.FullName, req.Phone, req.Bio, req.AvatarURL, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully"})
}
