package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/marketplace"
	"github.com/omtii/marketplace/internal/messaging"
)

// ListServices returns every listing regardless of status, newest first,
// joined with the vendor's public profile. GET /admin/services
func ListServices(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(), `
		SELECT s.id, s.user_id, s.category_id, s.title, s.description, s.price, s.status, s.images, s.created_at,
		       u.full_name, u.avatar_url
		FROM services s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list services"})
	}
	defer rows.Close()

	services := []marketplace.ServiceSummary{}
	for rows.Next() {
		var s marketplace.ServiceSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Title, &s.Description, &s.Price,
			&s.Status, &s.Images, &s.CreatedAt, &s.VendorName, &s.VendorAvatar); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse service record"})
		}
		services = append(services, s)
	}

	return c.JSON(http.StatusOK, echo.Map{"services": services})
}

type adminServiceForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *string  `json:"category_id"`
	Status      string   `json:"status"`
}

// UpdateService edits any field of any listing, including forcing status.
// PATCH /admin/services/:id
func UpdateService(c echo.Context) error {
	serviceID := c.Param("id")

	var req adminServiceForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Status != "" && !marketplace.ValidServiceStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
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
		    status = COALESCE(NULLIF($5, ''), status)
		WHERE id = $6
	`, req.Title, req.Description, req.Price, req.CategoryID, req.Status, serviceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service updated successfully"})
}

// ApproveService makes a listing publicly visible. POST /admin/services/:id/approve
func ApproveService(c echo.Context) error {
	return setServiceStatus(c, marketplace.ServiceApproved)
}

// RejectService declines a listing. POST /admin/services/:id/reject
func RejectService(c echo.Context) error {
	return setServiceStatus(c, marketplace.ServiceRejected)
}

func setServiceStatus(c echo.Context, status string) error {
	serviceID := c.Param("id")

	var vendorID string
	err := db.Conn.QueryRow(c.Request().Context(), `
		UPDATE services SET status = $1 WHERE id = $2 RETURNING user_id
	`, status, serviceID).Scan(&vendorID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}

	messaging.PushToUser(vendorID, "service_status", echo.Map{
		"id":     serviceID,
		"status": status,
	})

	return c.JSON(http.StatusOK, echo.Map{"id": serviceID, "status": status})
}

// DeleteService removes any listing. DELETE /admin/services/:id
func DeleteService(c echo.Context) error {
	tag, err := db.Conn.Exec(c.Request().Context(), `DELETE FROM services WHERE id = $1`, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete service"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted successfully"})
}
