package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Same policy as the CORS headers
	},
}

// ProgressHub forwards analysis progress events to WebSocket clients
// subscribed to an upload.
type ProgressHub struct {
	clients map[string]map[*websocket.Conn]bool
	mu      sync.Mutex
	log     *logging.Logger
}

// NewProgressHub creates a new ProgressHub.
func NewProgressHub(log *logging.Logger) *ProgressHub {
	if log == nil {
		log = logging.Discard()
	}
	return &ProgressHub{
		clients: make(map[string]map[*websocket.Conn]bool),
		log:     log,
	}
}

// ServeHTTP handles WebSocket upgrade requests on /api/progress/{file_id}.
func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/progress/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*websocket.Conn]bool)
	}
	h.clients[id][conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients[id], conn)
		if len(h.clients[id]) == 0 {
			delete(h.clients, id)
		}
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish implements app.ProgressSink.
func (h *ProgressHub) Publish(p app.Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[p.FileID]
	if len(conns) == 0 {
		return
	}

	msg, err := json.Marshal(p)
	if err != nil {
		return
	}
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("progress write to %s: %v", conn.RemoteAddr(), err)
		}
	}
}

// Subscribers returns the number of clients watching file id.
func (h *ProgressHub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[id])
}
