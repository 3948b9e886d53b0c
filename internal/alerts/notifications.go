package alerts

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/omtii/marketplace/internal/db"
)

var logger = zap.NewNop()

// Init wires the package logger. Notification writes are best-effort; the
// operations that trigger them must not fail because a notification did.
func Init(l *zap.Logger) {
	if l != nil {
		logger = l.Named("alerts")
	}
}

// Notification is an in-app alert row for one user.
type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Reference *string    `json:"reference"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}

// CreateNotification records an in-app notification for the user.
func CreateNotification(ctx context.Context, userID, typ, title, body string, reference *string) error {
	_, err := db.Conn.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, body, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), userID, typ, title, body, reference)
	if err != nil {
		logger.Warn("failed to create notification", zap.String("type", typ), zap.Error(err))
	}
	return err
}

// ListNotifications returns the caller's notifications, newest first.
// GET /notifications
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(), `
		SELECT id, type, title, body, reference, created_at, read_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 100
	`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list notifications"})
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.Reference, &n.CreatedAt, &n.ReadAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse notification record"})
		}
		notifications = append(notifications, n)
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// MarkNotificationRead - owner marks one notification as read.
// POST /notifications/:id/read
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	tag, err := db.Conn.Exec(c.Request().Context(), `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, c.Param("id"), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark notification read"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found or already read"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked read"})
}
