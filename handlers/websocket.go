package handlers

import (
	"log"
	"net/http"

	"attendance/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard may be served from another origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventSocket answers GET /api/events: upgrades to a websocket and streams
// live events (marks, session changes, registration results) to the
// dashboard until the client disconnects.
func EventSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	isConnected := true
	id := uuid.NewString()
	events.AddClient(id, func(data []byte) bool {
		if !isConnected {
			return false
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	})
	defer events.RemoveClient(id)
	// Main read cycle. The stream is one-way; reads only detect disconnects
	// and answer keepalive pings.
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			isConnected = false
			break
		}
		if string(message) == "ping" {
			conn.WriteMessage(mt, []byte("pong"))
		}
	}
}
