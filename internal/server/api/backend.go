// Package api provides the HTTP API handlers for the Mudra server.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/backend"
)

// Switcher is the slice of the backend controller the API needs.
type Switcher interface {
	Active() backend.Kind
	Select(kind backend.Kind) error
	Running() bool
}

// BackendHandler handles HTTP requests for the backend selector control.
type BackendHandler struct {
	backends Switcher
}

// NewBackendHandler creates a new BackendHandler.
func NewBackendHandler(backends Switcher) *BackendHandler {
	return &BackendHandler{backends: backends}
}

type backendResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
	Running   bool     `json:"running"`
}

type selectBackendRequest struct {
	Backend string `json:"backend"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP implements the http.Handler interface.
func (h *BackendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut, http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BackendHandler) get(w http.ResponseWriter) {
	available := make([]string, 0, len(backend.Kinds()))
	for _, k := range backend.Kinds() {
		available = append(available, string(k))
	}

	writeJSON(w, http.StatusOK, backendResponse{
		Active:    string(h.backends.Active()),
		Available: available,
		Running:   h.backends.Running(),
	})
}

func (h *BackendHandler) set(w http.ResponseWriter, r *http.Request) {
	var req selectBackendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	kind, err := backend.ParseKind(req.Backend)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.backends.Select(kind); err != nil {
		// Activation failed: the loop stays stopped and the caller sees why.
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	h.get(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
