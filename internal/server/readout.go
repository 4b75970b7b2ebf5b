package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReadoutHandler broadcasts the angle readout over websocket. It implements
// render.ReadoutSink.
type ReadoutHandler struct {
	hub  *wsHub
	mu   sync.RWMutex
	last string
}

// NewReadoutHandler creates a new ReadoutHandler.
func NewReadoutHandler() *ReadoutHandler {
	return &ReadoutHandler{hub: newWSHub()}
}

type readoutMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// PublishAngle records the latest reading and pushes it to all clients.
func (h *ReadoutHandler) PublishAngle(text string) {
	h.mu.Lock()
	h.last = text
	h.mu.Unlock()

	if h.hub.count() == 0 {
		return
	}
	h.hub.broadcast(readoutMessage{
		Type:      "angle",
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Last returns the most recent reading, empty if none has been computed.
func (h *ReadoutHandler) Last() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// ServeHTTP handles websocket upgrade requests. New clients immediately
// receive the latest reading, if any.
func (h *ReadoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hub.serve(w, r, func(conn *websocket.Conn) error {
		last := h.Last()
		if last == "" {
			return nil
		}
		return conn.WriteJSON(readoutMessage{
			Type:      "angle",
			Text:      last,
			Timestamp: time.Now().UnixMilli(),
		})
	})
}
