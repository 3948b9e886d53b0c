package messaging

import (
	"sort"
	"time"
)

// Message is one entry in a service request's chat thread. Content is
// immutable after insert; only is_read flips, and only via the receiver's
// batch mark-read.
type Message struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"service_request_id"`
	SenderID         string    `json:"sender_id"`
	ReceiverID       string    `json:"receiver_id"`
	Content          string    `json:"content"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// SortThread orders messages by creation time, ties broken by id. This is
// the single display order for a thread; history fetches and live-pushed
// messages must both converge on it.
func SortThread(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

// AppendIfNew merges a live-pushed message into an ordered thread without
// duplicating one already present (the sender's own round trip and the
// realtime echo can race). The result stays in thread order.
func AppendIfNew(msgs []Message, m Message) []Message {
	for _, have := range msgs {
		if have.ID == m.ID {
			return msgs
		}
	}
	msgs = append(msgs, m)
	SortThread(msgs)
	return msgs
}
