package messaging

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialUserFeed(t *testing.T, userID string) (*websocket.Conn, func()) {
	t.Helper()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		c.Set("user_id", userID)
		return UserWS(c)
	})
	srv := httptest.NewServer(e)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	// Registration happens after the upgrade; wait for the hub to appear.
	deadline := time.Now().Add(2 * time.Second)
	for userHubs.peek(userID) == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.NotNil(t, userHubs.peek(userID))

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestUserFeedDeliversConcurrentPushes(t *testing.T) {
	conn, cleanup := dialUserFeed(t, "feed-user-concurrent")
	defer cleanup()

	const pushers, perPusher = 4, 25
	var wg sync.WaitGroup
	for i := 0; i < pushers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPusher; j++ {
				PushToUser("feed-user-concurrent", "request_status", echo.Map{"status": "accepted"})
			}
		}()
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for received := 0; received < pushers*perPusher; received++ {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var evt wsEvent
		require.NoError(t, json.Unmarshal(payload, &evt))
		assert.Equal(t, "request_status", evt.Type)
	}
	wg.Wait()
}

func TestPushToUserWithoutConnectionsIsNoop(t *testing.T) {
	// No hub exists for this user; the push must not create one.
	PushToUser("feed-user-absent", "message_new", echo.Map{})
	assert.Nil(t, userHubs.peek("feed-user-absent"))
}
