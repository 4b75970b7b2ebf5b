package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/pointcloud"
)

// CloudHandler bridges the point-cloud projector to the browser scatter
// widget over websocket. It implements pointcloud.Widget: the projector's
// one-time setup calls become "render", "sequences", and "colors" messages,
// and every later frame a cheap "update". Clients that connect after setup
// get the setup messages replayed.
type CloudHandler struct {
	hub *wsHub

	mu        sync.RWMutex
	dataset   []detector.Point3D
	sequences map[string][]int
	colors    []string
	rendered  bool
}

// NewCloudHandler creates a new CloudHandler.
func NewCloudHandler() *CloudHandler {
	return &CloudHandler{hub: newWSHub()}
}

type cloudMessage struct {
	Type      string             `json:"type"`
	Points    []detector.Point3D `json:"points,omitempty"`
	Sequences map[string][]int   `json:"sequences,omitempty"`
	Colors    []string           `json:"colors,omitempty"`
}

// Render performs the widget's full initial render.
func (h *CloudHandler) Render(dataset []detector.Point3D) error {
	h.mu.Lock()
	h.dataset = dataset
	h.rendered = true
	h.mu.Unlock()

	h.hub.broadcast(cloudMessage{Type: "render", Points: dataset})
	return nil
}

// UpdateDataset pushes a new dataset without re-running setup.
func (h *CloudHandler) UpdateDataset(dataset []detector.Point3D) error {
	h.mu.Lock()
	h.dataset = dataset
	h.mu.Unlock()

	h.hub.broadcast(cloudMessage{Type: "update", Points: dataset})
	return nil
}

// RegisterSequences installs the named index sequences the widget connects
// with lines.
func (h *CloudHandler) RegisterSequences(sequences map[string][]int) error {
	h.mu.Lock()
	h.sequences = sequences
	h.mu.Unlock()

	h.hub.broadcast(cloudMessage{Type: "sequences", Sequences: sequences})
	return nil
}

// SetPointColorer resolves the colorer against the current dataset and
// sends the per-index color table.
func (h *CloudHandler) SetPointColorer(c pointcloud.Colorer) error {
	h.mu.Lock()
	colors := make([]string, len(h.dataset))
	for i := range colors {
		colors[i] = c(i)
	}
	h.colors = colors
	h.mu.Unlock()

	h.hub.broadcast(cloudMessage{Type: "colors", Colors: colors})
	return nil
}

// ServeHTTP handles websocket upgrade requests, replaying the widget setup
// and the latest dataset to the new client.
func (h *CloudHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hub.serve(w, r, func(conn *websocket.Conn) error {
		h.mu.RLock()
		defer h.mu.RUnlock()

		if !h.rendered {
			return nil
		}
		if err := conn.WriteJSON(cloudMessage{Type: "render", Points: h.dataset}); err != nil {
			return err
		}
		if h.sequences != nil {
			if err := conn.WriteJSON(cloudMessage{Type: "sequences", Sequences: h.sequences}); err != nil {
				return err
			}
		}
		if h.colors != nil {
			if err := conn.WriteJSON(cloudMessage{Type: "colors", Colors: h.colors}); err != nil {
				return err
			}
		}
		return nil
	})
}
