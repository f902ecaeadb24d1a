package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tableserve/restaurant-system/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsController struct {
	Hub *events.Hub
}

func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{Hub: hub}
}

// Stream -> GET /ws, upgrades to a websocket and joins the broadcast set.
// Every connected client receives every event; views re-fetch on each one.
func (ec *EventsController) Stream(c *gin.Context) {
	role := c.GetString("role")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := events.NewClient(ec.Hub, conn, role)
	ec.Hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
