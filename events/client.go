package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one websocket connection attached to the hub.
type Client struct {
	ID   string
	Role string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, role string) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Role: role,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 16),
	}
}

// inboundMessage is the single client->server message type: a manual
// request to re-broadcast an order status. It duplicates the HTTP path and
// is kept only for client compatibility.
type inboundMessage struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// ReadPump consumes inbound frames until the connection drops, then
// detaches the client from the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == "update_order_status" && msg.OrderID != 0 {
			c.hub.NotifyOrderUpdate(msg.OrderID, msg.Status)
		}
	}
}

// WritePump forwards hub messages to the peer until the send channel is
// closed by the hub.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
