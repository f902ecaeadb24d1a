package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event types pushed to connected clients.
const (
	EventNewOrder     = "new_order"
	EventOrderUpdated = "order_updated"
	EventItemUpdated  = "item_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderUpdate is the payload of an order_updated event. It carries ids
// only; clients re-fetch the order instead of applying the event as a
// delta.
type OrderUpdate struct {
	OrderID   uint      `json:"order_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemUpdate is the payload of an item_updated event.
type ItemUpdate struct {
	OrderID   uint      `json:"order_id"`
	ItemID    uint      `json:"item_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans every event out to every connected client; there is no
// per-client filtering. Delivery is best-effort and at-most-once: nothing
// is queued for clients that are not connected, and a client whose send
// buffer is full is disconnected rather than allowed to back-pressure the
// loop. A mutation that commits but fails to notify is still a success;
// viewers reconcile on their next fetch.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	clients    map[*Client]bool
	done       chan struct{}
	stopOnce   sync.Once
	log        *logrus.Logger
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        logrus.New(),
	}
}

// Start launches the hub event loop. Call once at service boot.
func (h *Hub) Start() {
	go h.run()
}

// Stop terminates the loop and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Infof("events: client %s connected (%d total)", client.ID, len(h.clients))
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.broadcast:
			h.send(msg)
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("events: marshal %s: %v", msg.Event, err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer; cut it loose instead of blocking the loop.
			h.drop(client)
		}
	}
}

// Register adds a connected client to the broadcast set.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client. Safe to call after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every connected client. Never blocks: if
// the hub is stopped or its queue is full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
	}
}

// NotifyNewOrder pushes the full created order to all viewers.
func (h *Hub) NotifyNewOrder(order interface{}) {
	h.Broadcast(Message{Event: EventNewOrder, Data: order})
}

// NotifyOrderUpdate signals that an order changed.
func (h *Hub) NotifyOrderUpdate(orderID uint, status string) {
	h.Broadcast(Message{Event: EventOrderUpdated, Data: OrderUpdate{
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now(),
	}})
}

// NotifyItemUpdate signals that a single order item changed.
func (h *Hub) NotifyItemUpdate(orderID, itemID uint, status string) {
	h.Broadcast(Message{Event: EventItemUpdated, Data: ItemUpdate{
		OrderID:   orderID,
		ItemID:    itemID,
		Status:    status,
		Timestamp: time.Now(),
	}})
}
