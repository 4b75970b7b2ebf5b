package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/backend"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	st, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	srv := server.New(server.Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 90, 90, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	camera := capture.NewMockCamera([]*gocv.Mat{&frame}, true)

	session := render.NewSession(render.Config{
		Camera:  camera,
		Widget:  srv.CloudWidget(),
		Readout: srv.Readout(),
		Display: srv.FrameHub(),
	})
	defer session.Close()

	// Both backends resolve to in-process detectors so the full switch
	// machinery runs without a camera or subprocess.
	hand := detector.OpenPalmHand(640, 480)
	registry := backend.Registry{
		backend.Synthetic: func() (detector.Detector, error) {
			d := detector.NewMockDetector()
			d.SetHands([]detector.Hand{hand})
			return d, nil
		},
		backend.MediaPipe: func() (detector.Detector, error) {
			d := detector.NewMockDetector()
			d.SetHands([]detector.Hand{hand})
			return d, nil
		},
	}

	ctrl := backend.NewController(session, registry)
	ctrl.OnSwitch(func(kind backend.Kind) {
		if err := st.Settings().Set(store.KeyBackend, string(kind)); err != nil {
			t.Errorf("persist backend choice: %v", err)
		}
	})
	srv.SetBackends(ctrl)

	t.Run("SelectStartsPipeline", func(t *testing.T) {
		if err := ctrl.Select(backend.Synthetic); err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if !session.Running() {
			t.Fatal("loop not running after select")
		}
	})

	t.Run("FramesReachDisplay", func(t *testing.T) {
		deadline := time.Now().Add(3 * time.Second)
		for {
			if _, seq := srv.FrameHub().Latest(); seq > 0 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("no frame published within deadline")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("ReadoutUpdates", func(t *testing.T) {
		deadline := time.Now().Add(3 * time.Second)
		for srv.Readout().Last() == "" {
			if time.Now().After(deadline) {
				t.Fatal("no angle reading within deadline")
			}
			time.Sleep(10 * time.Millisecond)
		}
		if !strings.HasSuffix(srv.Readout().Last(), "°") {
			t.Errorf("reading %q not degree-formatted", srv.Readout().Last())
		}
	})

	t.Run("BackendAPIReportsActive", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/backend")
		if err != nil {
			t.Fatalf("get backend error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Active  string `json:"active"`
			Running bool   `json:"running"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Active != string(backend.Synthetic) || !body.Running {
			t.Errorf("got active=%q running=%v, want synthetic running", body.Active, body.Running)
		}
	})

	t.Run("SwitchOverHTTP", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/backend",
			strings.NewReader(`{"backend": "mediapipe"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("switch request error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if ctrl.Active() != backend.MediaPipe {
			t.Errorf("active = %q, want mediapipe", ctrl.Active())
		}
		if !session.Running() {
			t.Error("loop not running after switch")
		}
	})

	t.Run("ChoicePersisted", func(t *testing.T) {
		saved, err := st.Settings().Get(store.KeyBackend)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if saved != string(backend.MediaPipe) {
			t.Errorf("saved backend = %q, want mediapipe", saved)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after pipeline operations")
		}
	})
}
