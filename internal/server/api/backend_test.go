package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/backend"
)

// fakeSwitcher is a test double for the backend controller.
type fakeSwitcher struct {
	active    backend.Kind
	running   bool
	selectErr error
	selected  []backend.Kind
}

func (f *fakeSwitcher) Active() backend.Kind { return f.active }
func (f *fakeSwitcher) Running() bool        { return f.running }

func (f *fakeSwitcher) Select(kind backend.Kind) error {
	f.selected = append(f.selected, kind)
	if f.selectErr != nil {
		return f.selectErr
	}
	f.active = kind
	f.running = true
	return nil
}

func TestBackendHandler_Get(t *testing.T) {
	sw := &fakeSwitcher{active: backend.Synthetic, running: true}
	h := NewBackendHandler(sw)

	req := httptest.NewRequest(http.MethodGet, "/api/backend", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp backendResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Active != string(backend.Synthetic) {
		t.Errorf("active = %q, want %q", resp.Active, backend.Synthetic)
	}
	if !resp.Running {
		t.Error("running = false, want true")
	}
	if len(resp.Available) != len(backend.Kinds()) {
		t.Errorf("available = %v, want all kinds", resp.Available)
	}
}

func TestBackendHandler_Select(t *testing.T) {
	sw := &fakeSwitcher{active: backend.Synthetic}
	h := NewBackendHandler(sw)

	req := httptest.NewRequest(http.MethodPut, "/api/backend",
		strings.NewReader(`{"backend": "mediapipe"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body)
	}
	if len(sw.selected) != 1 || sw.selected[0] != backend.MediaPipe {
		t.Errorf("selected = %v, want [mediapipe]", sw.selected)
	}
}

func TestBackendHandler_SelectUnknown(t *testing.T) {
	sw := &fakeSwitcher{}
	h := NewBackendHandler(sw)

	req := httptest.NewRequest(http.MethodPut, "/api/backend",
		strings.NewReader(`{"backend": "webgl"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(sw.selected) != 0 {
		t.Error("unknown backend reached the controller")
	}
}

func TestBackendHandler_ActivationFailure(t *testing.T) {
	sw := &fakeSwitcher{selectErr: errors.New("landmark service not found")}
	h := NewBackendHandler(sw)

	req := httptest.NewRequest(http.MethodPut, "/api/backend",
		strings.NewReader(`{"backend": "mediapipe"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "landmark service") {
		t.Errorf("error = %q, want activation failure surfaced", resp.Error)
	}
}

func TestBackendHandler_MethodNotAllowed(t *testing.T) {
	h := NewBackendHandler(&fakeSwitcher{})

	req := httptest.NewRequest(http.MethodDelete, "/api/backend", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
