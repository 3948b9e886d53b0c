package marketplace

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

type serviceForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *string  `json:"category_id"`
	Images      []string `json:"images"`
}

// CreateService lists a new service. Listings always start as pending and
// become visible once an admin approves them.
func CreateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req serviceForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}
	if req.Images == nil {
		req.Images = []string{}
	}

	serviceID := uuid.New().String()
	_, err := db.Conn.Exec(c.Request().Context(), `
		INSERT INTO services (id, user_id, category_id, title, description, price, status, images)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
	`, serviceID, uid, req.CategoryID, req.Title, req.Description, req.Price, req.Images)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"service_id": serviceID,
		"status":     ServicePending,
	})
}

// GetAllServices is the public discovery listing: approved services only,
// newest first, with optional search and category filters.
func GetAllServices(c echo.Context) error {
	q := c.QueryParam("q")
	categoryID := c.QueryParam("category_id")
	limit := 20
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	query := `SELECT s.id, s.user_id, s.category_id, s.title, s.description, s.price, s.status, s.images, s.created_at,
	                 u.full_name, u.avatar_url
	          FROM services s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.status = 'approved'`
	args := []any{}

	if q != "" {
		args = append(args, "%"+q+"%")
		query += fmt.Sprintf(" AND (s.title ILIKE $%d OR s.description ILIKE $%d)", len(args), len(args))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND s.category_id = $%d", len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.Conn.Query(c.Request().Context(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch services"})
	}
	defer rows.Close()

	services := []ServiceSummary{}
	for rows.Next() {
		var s ServiceSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Title, &s.Description, &s.Price,
			&s.Status, &s.Images, &s.CreatedAt, &s.VendorName, &s.VendorAvatar); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse service record"})
		}
		services = append(services, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

// GetUserServices returns all listings owned by the authenticated vendor,
// regardless of moderation status.
func GetUserServices(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(), `
		SELECT id, user_id, category_id, title, description, price, status, images, created_at
		FROM services WHERE user_id = $1 ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch user services"})
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Title, &s.Description, &s.Price,
			&s.Status, &s.Images, &s.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse service record"})
		}
		services = append(services, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

// UpdateService edits an owned listing. Status is never writable here;
// moderation owns that field.
func UpdateService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	serviceID := c.Param("id")
	var req serviceForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		UPDATE services
		SET title = COALESCE(NULLIF($1, ''), title),
		    description = COALESCE(NULLIF($2, ''), description),
		    price = COALESCE($3, price),
		    category_id = COALESCE($4, category_id),
		    images = COALESCE($5, images)
		WHERE id = $6 AND user_id = $7
	`, req.Title, req.Description, req.Price, req.CategoryID, req.Images, serviceID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update service"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service updated successfully"})
}

// DeleteService removes a listing. Owners may delete their own; a
// super_admin may delete any.
func DeleteService(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roleSet, _ := c.Get("roles").([]roles.Role)

	serviceID := c.Param("id")

	var tagQuery string
	var args []any
	if roles.Has(roleSet, roles.SuperAdmin) {
		tagQuery = `DELETE FROM services WHERE id = $1`
		args = []any{serviceID}
	} else {
		tagQuery = `DELETE FROM services WHERE id = $1 AND user_id = $2`
		args = []any{serviceID, uid}
	}

	tag, err := db.Conn.Exec(c.Request().Context(), tagQuery, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete service"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found or not yours"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted successfully"})
}
