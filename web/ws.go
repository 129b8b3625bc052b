package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const keepAlivePingInterval = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// allow all origins for WebSocket connections
		// should only in dev
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamTrip pushes a full view state on connect and after every
// change, local or remote. The client treats each frame as the whole
// truth, same as the snapshot subscription it replaces.
func (h *Handler) streamTrip(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	watchID, states := h.controller.Watch()
	defer h.controller.Unwatch(watchID)

	// Reader goroutine: we never expect frames from the client, but
	// reading is what surfaces the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(keepAlivePingInterval)
	defer ticker.Stop()

	for {
		select {
		case view, ok := <-states:
			if !ok {
				return
			}
			if err := conn.WriteJSON(view); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
