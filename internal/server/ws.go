package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// wsHub tracks connected websocket clients and broadcasts JSON messages to
// all of them.
type wsHub struct {
	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[string]*websocket.Conn)}
}

// serve upgrades the request and keeps the connection registered until the
// client goes away. onConnect, if set, runs before the connection joins the
// broadcast set, so late joiners can be replayed current state.
func (h *wsHub) serve(w http.ResponseWriter, r *http.Request, onConnect func(conn *websocket.Conn) error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if onConnect != nil {
		if err := onConnect(conn); err != nil {
			return
		}
	}

	id := uuid.NewString()

	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends v as JSON to every connected client.
func (h *wsHub) broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// count returns the number of connected clients.
func (h *wsHub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
