package marketplace

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/alerts"
	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/messaging"
	"github.com/omtii/marketplace/internal/roles"
)

// CreateRequest - client requests a vendor's service.
//
// The insert is scoped to approved services, resolving the vendor from the
// service owner in the same statement. Duplicate pending requests from the
// same client are allowed on purpose.
func CreateRequest(c echo.Context) error {
	clientID, ok := c.Get("user_id").(string)
	if !ok || clientID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		ServiceID string `json:"service_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.ServiceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service_id"})
	}

	var message *string
	if trimmed := strings.TrimSpace(req.Message); trimmed != "" {
		message = &trimmed
	}

	ctx := c.Request().Context()
	requestID := uuid.New().String()

	var vendorID string
	var createdAt time.Time
	err := db.Conn.QueryRow(ctx, `
		INSERT INTO service_requests (id, service_id, client_id, vendor_id, message, status)
		SELECT $1, s.id, $2, s.user_id, $3, 'pending'
		FROM services s WHERE s.id = $4 AND s.status = 'approved'
		RETURNING vendor_id, created_at
	`, requestID, clientID, message, req.ServiceID).Scan(&vendorID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "service not available for requests"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create request"})
	}

	messaging.PushToUser(vendorID, "request_created", echo.Map{
		"id":         requestID,
		"service_id": req.ServiceID,
		"client_id":  clientID,
		"status":     RequestPending,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
	ref := requestID
	_ = alerts.CreateNotification(ctx, vendorID, "request:new", "New service request", req.Message, &ref)

	return c.JSON(http.StatusCreated, echo.Map{
		"request_id": requestID,
		"vendor_id":  vendorID,
		"status":     RequestPending,
	})
}

// ListRequests returns the caller's requests, newest first, joined with the
// service title and the counterpart's profile summary.
// GET /marketplace/requests?as=client|vendor
func ListRequests(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	as := c.QueryParam("as")
	if as == "" {
		as = "client"
	}

	var query string
	switch as {
	case "client":
		query = `
			SELECT r.id, r.service_id, r.client_id, r.vendor_id, r.message, r.status, r.created_at,
			       s.title, u.id, u.full_name, u.email, u.avatar_url
			FROM service_requests r
			JOIN services s ON s.id = r.service_id
			JOIN users u ON u.id = r.vendor_id
			WHERE r.client_id = $1
			ORDER BY r.created_at DESC`
	case "vendor":
		query = `
			SELECT r.id, r.service_id, r.client_id, r.vendor_id, r.message, r.status, r.created_at,
			       s.title, u.id, u.full_name, u.email, u.avatar_url
			FROM service_requests r
			JOIN services s ON s.id = r.service_id
			JOIN users u ON u.id = r.client_id
			WHERE r.vendor_id = $1
			ORDER BY r.created_at DESC`
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "as must be client or vendor"})
	}

	rows, err := db.Conn.Query(c.Request().Context(), query, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list requests"})
	}
	defer rows.Close()

	requests := []RequestRow{}
	for rows.Next() {
		var r RequestRow
		if err := rows.Scan(&r.ID, &r.ServiceID, &r.ClientID, &r.VendorID, &r.Message, &r.Status, &r.CreatedAt,
			&r.ServiceTitle, &r.CounterpartID, &r.CounterpartName, &r.CounterpartEmail, &r.CounterpartAvatar); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse request record"})
		}
		requests = append(requests, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// AcceptRequest - owning vendor (or admin) accepts a pending request.
func AcceptRequest(c echo.Context) error {
	return setRequestStatus(c, RequestAccepted)
}

// RejectRequest - owning vendor (or admin) rejects a pending request.
func RejectRequest(c echo.Context) error {
	return setRequestStatus(c, RequestRejected)
}

func setRequestStatus(c echo.Context, newStatus string) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roleSet, _ := c.Get("roles").([]roles.Role)

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	ctx := c.Request().Context()

	var clientID, vendorID, status string
	err := db.Conn.QueryRow(ctx, `
		SELECT client_id, vendor_id, status FROM service_requests WHERE id = $1
	`, requestID).Scan(&clientID, &vendorID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	isModerator := roles.Has(roleSet, roles.Admin) || roles.Has(roleSet, roles.SuperAdmin)
	if uid != vendorID && !isModerator {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the vendor for this request"})
	}

	if !CanTransition(status, newStatus) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request already handled"})
	}

	// The status guard is repeated in the UPDATE so a concurrent transition
	// cannot slip through between the read and the write.
	tag, err := db.Conn.Exec(ctx, `
		UPDATE service_requests SET status = $1 WHERE id = $2 AND status = 'pending'
	`, newStatus, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update request"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request already handled"})
	}

	event := echo.Map{"id": requestID, "status": newStatus}
	messaging.PushToUser(clientID, "request_status", event)
	messaging.PushToUser(vendorID, "request_status", event)
	messaging.PushToThread(requestID, "request_status", event)

	ref := requestID
	_ = alerts.CreateNotification(ctx, clientID, "request:"+newStatus, "Your request was "+newStatus, "", &ref)

	return c.JSON(http.StatusOK, echo.Map{"id": requestID, "status": newStatus})
}
