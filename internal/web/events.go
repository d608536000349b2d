package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// frameInterval throttles the simulator frame stream so browsers are not
// flooded at the update loop's native rate.
const frameInterval = 33 * time.Millisecond

// Hub fans display events out to connected websocket clients: editor-lock
// changes, brightness changes, playlist edits, and (on the simulator backend)
// the rendered frame stream.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	lastFrame time.Time
}

func NewHub() *Hub {
	return &Hub{clients: map[*websocket.Conn]bool{}}
}

// HandleWS upgrades the request and keeps the connection registered until the
// peer goes away. Clients only listen; inbound messages are drained and
// dropped.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// EditorLockChanged announces preview-session lock transitions, including the
// forced unlock on preview timeout.
func (h *Hub) EditorLockChanged(locked bool, session string) {
	h.broadcast(map[string]any{
		"type":    "editor_lock",
		"locked":  locked,
		"session": session,
	})
}

func (h *Hub) BrightnessChanged(brightness int) {
	h.broadcast(map[string]any{
		"type":       "brightness",
		"brightness": brightness,
	})
}

func (h *Hub) PlaylistChanged() {
	h.broadcast(map[string]any{"type": "playlist"})
}

// FrameSink matches driver.FrameSink so the simulator backend can stream
// presented frames. Throttled; the RGB payload is base64 in the JSON.
func (h *Hub) FrameSink(rgb []uint8, w, hgt int) {
	h.mu.Lock()
	if time.Since(h.lastFrame) < frameInterval || len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	h.lastFrame = time.Now()
	h.mu.Unlock()

	buf := append([]uint8{}, rgb...)
	h.broadcast(map[string]any{
		"type":   "frame",
		"width":  w,
		"height": hgt,
		"rgb":    buf,
	})
}

func (h *Hub) broadcast(msg map[string]any) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
		}
	}
}
