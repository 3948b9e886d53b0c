package admin

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
)

type categoryForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CreateCategory adds a browsing category. POST /admin/categories
func CreateCategory(c echo.Context) error {
	actorID, _ := c.Get("user_id").(string)

	var req categoryForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	categoryID := uuid.New().String()
	_, err := db.Conn.Exec(c.Request().Context(), `
		INSERT INTO categories (id, name, description, icon, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, categoryID, req.Name, req.Description, req.Icon, actorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"category_id": categoryID})
}

// UpdateCategory edits a category. PATCH /admin/categories/:id
func UpdateCategory(c echo.Context) error {
	var req categoryForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		UPDATE categories
		SET name = COALESCE(NULLIF($1, ''), name),
		    description = COALESCE(NULLIF($2, ''), description),
		    icon = COALESCE(NULLIF($3, ''), icon)
		WHERE id = $4
	`, req.Name, req.Description, req.Icon, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "category updated successfully"})
}

// DeleteCategory removes a category; services keep their listing with a
// cleared category. DELETE /admin/categories/:id
func DeleteCategory(c echo.Context) error {
	tag, err := db.Conn.Exec(c.Request().Context(), `DELETE FROM categories WHERE id = $1`, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete category"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}
