package resources

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/roadvision/store/internal/broadcast"
	nuts "github.com/vaudience/go-nuts"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LiveHandlers serves the live-update channel
type LiveHandlers struct {
	registry *broadcast.Registry
	opts     broadcast.Options
}

// @Summary Live updates
// @Description Upgrade to a WebSocket that receives every newly created record as a JSON text frame
// @Tags live
// @Router /ws/ [get]
func (h *LiveHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		nuts.L.Warnf("[API] Failed to upgrade connection from %s: %v", r.RemoteAddr, err)
		return
	}
	h.registry.Serve(conn, h.opts)
}
