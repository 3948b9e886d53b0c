package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
)

// GetCategories returns all categories for public browsing, newest first.
func GetCategories(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(), `
		SELECT id, name, description, icon, created_at
		FROM categories ORDER BY created_at DESC
	`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch categories"})
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Icon, &cat.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse category record"})
		}
		categories = append(categories, cat)
	}

	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}
