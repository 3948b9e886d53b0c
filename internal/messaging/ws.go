package messaging

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
)

type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	// Exclusive lock: a conn tolerates only one concurrent writer, so
	// broadcasts to the same hub must not interleave.
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.WriteMessage(websocket.TextMessage, payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) (empty bool) {
	h.mu.Lock()
	delete(h.clients, c)
	empty = len(h.clients) == 0
	h.mu.Unlock()
	return empty
}

// registry keeps hubs keyed by scope (a request id for thread hubs, a user
// id for feed hubs). Hubs are dropped once their last connection leaves so
// abandoned threads do not accumulate.
type registry struct {
	mu   sync.RWMutex
	hubs map[string]*hub
}

func newRegistry() *registry {
	return &registry{hubs: make(map[string]*hub)}
}

func (r *registry) get(key string) *hub {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hubs[key]
	if !ok {
		h = newHub()
		r.hubs[key] = h
	}
	return h
}

func (r *registry) peek(key string) *hub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hubs[key]
}

func (r *registry) release(key string, c *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hubs[key]
	if !ok {
		return
	}
	if h.unregister(c) {
		delete(r.hubs, key)
	}
}

var (
	threadHubs = newRegistry()
	userHubs   = newRegistry()
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// PushToThread publishes an event to everyone with the request's thread open.
func PushToThread(requestID, event string, data any) {
	if h := threadHubs.peek(requestID); h != nil {
		h.broadcast(wsEvent{Type: event, Data: data})
	}
}

// PushToUser publishes an event to the user's dashboard feed.
func PushToUser(userID, event string, data any) {
	if h := userHubs.peek(userID); h != nil {
		h.broadcast(wsEvent{Type: event, Data: data})
	}
}

// ThreadWS - realtime feed for one request's thread. Participants only.
// GET /marketplace/requests/:id/ws
func ThreadWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	requestID := c.Param("id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing request id"})
	}

	var clientID, vendorID string
	err := db.Conn.QueryRow(c.Request().Context(),
		`SELECT client_id, vendor_id FROM service_requests WHERE id = $1`, requestID,
	).Scan(&clientID, &vendorID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	if userID != clientID && userID != vendorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this request"})
	}

	return serve(c, threadHubs, requestID)
}

// UserWS - per-user dashboard feed (new requests, status changes, incoming
// messages). GET /ws
func UserWS(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return serve(c, userHubs, userID)
}

// serve upgrades the connection and blocks on the read loop. The connection
// is released on every exit path; the protocol is server push only.
func serve(c echo.Context, reg *registry, key string) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	reg.get(key).register(ws)
	defer func() {
		reg.release(key, ws)
		_ = ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return nil
		}
	}
}
