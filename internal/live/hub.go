// Package live pushes newly posted trips to passengers watching a
// search corridor over WebSocket.
package live

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"carpool-service/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *safeConn) readMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *safeConn) close() { c.ws.Close() }

// Hub manages WebSocket subscribers per search corridor.
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*safeConn
}

// NewHub creates a live-search hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string][]*safeConn)}
}

// corridorKey normalises an origin/destination pair.
func corridorKey(origin, destination string) string {
	return strings.ToLower(strings.TrimSpace(origin)) + "→" + strings.ToLower(strings.TrimSpace(destination))
}

// Routes returns a chi.Router for the /ws mount point.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/search", h.HandleWS)
	return r
}

// HandleWS upgrades the connection and subscribes it to the corridor
// given by the origin/destination query parameters. Browsers cannot
// set headers on WebSocket dials, so the access token rides in the
// token query parameter.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	claims, err := jwt.Validate(r.URL.Query().Get("token"))
	if err != nil || claims.TokenType != "access" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	if origin == "" || destination == "" {
		http.Error(w, `{"error":"origin and destination are required"}`, http.StatusBadRequest)
		return
	}
	key := corridorKey(origin, destination)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}

	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.conns[key] = append(h.conns[key], conn)
	h.mu.Unlock()

	log.Printf("[ws] user %s watching %s", claims.UserID, key)

	// Block until the client disconnects
	for {
		if _, _, err := conn.readMessage(); err != nil {
			break
		}
	}

	h.removeConn(key, conn)
	conn.close()
	log.Printf("[ws] user %s stopped watching %s", claims.UserID, key)
}

// BroadcastTrip pushes a newly posted trip to everyone watching its
// corridor. Safe for concurrent calls.
func (h *Hub) BroadcastTrip(origin, destination string, trip any) {
	key := corridorKey(origin, destination)

	h.mu.RLock()
	conns := h.conns[key]
	h.mu.RUnlock()

	msg := map[string]any{
		"type": "trip.posted",
		"trip": trip,
		"ts":   time.Now().Unix(),
	}

	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			log.Printf("[ws] write error: %v", err)
		}
	}
}

func (h *Hub) removeConn(key string, conn *safeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[key]
	for i, c := range conns {
		if c == conn {
			h.conns[key] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[key]) == 0 {
		delete(h.conns, key)
	}
}
