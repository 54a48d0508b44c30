// websocket.go - Client presence channel feeding the retention sweeper
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/sweeper"
)

// presencePongWait bounds how long a silent page connection is considered
// alive before it is dropped and counted as disconnected.
const presencePongWait = 60 * time.Second

// PresenceHandler tracks portal page connections over WebSocket. The
// tracker sweeps all volatile state when the count drops to zero.
type PresenceHandler struct {
	upgrader websocket.Upgrader
	tracker  *sweeper.Tracker
}

// NewPresenceHandler creates a presence handler over the given tracker.
func NewPresenceHandler(tracker *sweeper.Tracker) *PresenceHandler {
	return &PresenceHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The portal has no auth; the presence channel carries no data.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		tracker: tracker,
	}
}

// HandlePresence upgrades the connection and holds it open for the page's
// lifetime. Connect/disconnect drive the sweeper's client counter.
func (h *PresenceHandler) HandlePresence(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	active := h.tracker.Connect()
	fmt.Printf("[Presence] Client connected (%d active)\n", active)
	defer func() {
		remaining := h.tracker.Disconnect()
		fmt.Printf("[Presence] Client disconnected (%d active)\n", remaining)
	}()

	ws.SetReadDeadline(time.Now().Add(presencePongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(presencePongWait))
	})

	for {
		msgType, msg, err := ws.ReadMessage()
		if err != nil {
			return nil
		}
		ws.SetReadDeadline(time.Now().Add(presencePongWait))

		// Browser clients without native ping frames send "ping" text.
		if msgType == websocket.TextMessage && string(msg) == "ping" {
			if err := ws.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return nil
			}
		}
	}
}
