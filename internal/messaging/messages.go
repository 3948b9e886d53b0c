package messaging

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/alerts"
	"github.com/omtii/marketplace/internal/db"
)

// participant resolves the request's two parties and checks membership.
func participant(ctx context.Context, requestID, userID string) (counterpart string, err error) {
	var clientID, vendorID string
	err = db.Conn.QueryRow(ctx,
		`SELECT client_id, vendor_id FROM service_requests WHERE id = $1`, requestID,
	).Scan(&clientID, &vendorID)
	if err != nil {
		return "", err
	}

	switch userID {
	case clientID:
		return vendorID, nil
	case vendorID:
		return clientID, nil
	default:
		return "", errNotParticipant
	}
}

var errNotParticipant = errors.New("not a participant")

// ListMessages returns the full thread in creation order. As a side effect,
// every message addressed to the caller is marked read in one batch update.
// GET /marketplace/requests/:id/messages
func ListMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	ctx := c.Request().Context()
	if _, err := participant(ctx, requestID, userID); err != nil {
		if errors.Is(err, errNotParticipant) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	rows, err := db.Conn.Query(ctx, `
		SELECT id, service_request_id, sender_id, receiver_id, content, is_read, created_at
		FROM messages WHERE service_request_id = $1
		ORDER BY created_at ASC, id ASC
	`, requestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list messages"})
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ServiceRequestID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse message record"})
		}
		msgs = append(msgs, m)
	}

	// Batch mark-read touches only previously-unread rows addressed to the
	// caller, so a second fetch is a no-op.
	tag, err := db.Conn.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE service_request_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`, requestID, userID)
	if err == nil && tag.RowsAffected() > 0 {
		PushToThread(requestID, "message_read", echo.Map{
			"service_request_id": requestID,
			"reader_id":          userID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// SendMessage appends to a request's thread. The receiver is always the
// other participant. POST /marketplace/requests/:id/messages
func SendMessage(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message content is empty"})
	}

	ctx := c.Request().Context()
	receiverID, err := participant(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, errNotParticipant) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch request"})
	}

	msg := Message{
		ID:               uuid.New().String(),
		ServiceRequestID: requestID,
		SenderID:         userID,
		ReceiverID:       receiverID,
		Content:          content,
	}
	err = db.Conn.QueryRow(ctx, `
		INSERT INTO messages (id, service_request_id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at
	`, msg.ID, msg.ServiceRequestID, msg.SenderID, msg.ReceiverID, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	PushToThread(requestID, "message_new", msg)
	PushToUser(receiverID, "message_new", msg)

	ref := msg.ID
	_ = alerts.CreateNotification(ctx, receiverID, "message:new", "New message on your request", content, &ref)

	return c.JSON(http.StatusCreated, echo.Map{
		"message_id": msg.ID,
		"created_at": msg.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// UnreadCount - unread messages addressed to the caller in one thread.
// GET /marketplace/requests/:id/unread
func UnreadCount(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	ctx := c.Request().Context()
	if _, err := participant(ctx, requestID, userID); err != nil {
		if errors.Is(err, errNotParticipant) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}

	var count int64
	err := db.Conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE service_request_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`, requestID, userID).Scan(&count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute unread count"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread": count})
}
