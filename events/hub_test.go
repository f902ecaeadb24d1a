package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// newTestServer exposes a started hub over a websocket endpoint, the same
// wiring the events controller does.
func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	hub.Start()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, "staff")
		hub.Register(client)
		go client.WritePump()
		client.ReadPump()
	}))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	// Registration is asynchronous; give the hub loop a beat.
	time.Sleep(100 * time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestBroadcastWithoutClientsIsANoOp(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	// Nothing listens; the notifications must return immediately and the
	// emitting side must not observe any failure.
	hub.NotifyOrderUpdate(1, "CONFIRMED")
	hub.NotifyNewOrder(map[string]interface{}{"id": 1})
	hub.NotifyItemUpdate(1, 2, "READY")
}

func TestClientReceivesBroadcasts(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)

	hub.NotifyNewOrder(map[string]interface{}{"order_number": "ORD-0001"})
	hub.NotifyOrderUpdate(42, "PREPARING")

	created := readMessage(t, conn)
	assert.Equal(t, EventNewOrder, created.Event)
	payload, ok := created.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ORD-0001", payload["order_number"])

	updated := readMessage(t, conn)
	assert.Equal(t, EventOrderUpdated, updated.Event)
	update, ok := updated.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), update["order_id"])
	assert.Equal(t, "PREPARING", update["status"])
	assert.NotEmpty(t, update["timestamp"])
}

func TestAllClientsShareTheFeed(t *testing.T) {
	hub, srv := newTestServer(t)
	first := dial(t, srv)
	second := dial(t, srv)

	hub.NotifyItemUpdate(7, 3, "SERVED")

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, EventItemUpdated, msg.Event)
	}
}

func TestInboundStatusRequestIsRebroadcast(t *testing.T) {
	_, srv := newTestServer(t)
	sender := dial(t, srv)
	receiver := dial(t, srv)

	require.NoError(t, sender.WriteJSON(map[string]interface{}{
		"type":     "update_order_status",
		"order_id": 9,
		"status":   "READY",
	}))

	msg := readMessage(t, receiver)
	assert.Equal(t, EventOrderUpdated, msg.Event)
	update, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(9), update["order_id"])
	assert.Equal(t, "READY", update["status"])
}

func TestMalformedInboundFramesAreIgnored(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "unknown"}))

	// The connection survives and still carries later events.
	hub.NotifyOrderUpdate(5, "CONFIRMED")
	msg := readMessage(t, conn)
	assert.Equal(t, EventOrderUpdated, msg.Event)
}

func TestStopDisconnectsClients(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)

	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "peer closes after the hub stops")
}
