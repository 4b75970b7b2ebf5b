package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/pointcloud"
)

func TestServer_Health(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestFrameHub_LatestTracksPublishes(t *testing.T) {
	hub := NewFrameHub()

	if jpeg, seq := hub.Latest(); jpeg != nil || seq != 0 {
		t.Error("fresh hub should hold no frame")
	}

	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer mat.Close()

	hub.PublishFrame(&mat)
	jpeg1, seq1 := hub.Latest()
	if len(jpeg1) == 0 || seq1 != 1 {
		t.Fatalf("after first publish: %d bytes, seq %d", len(jpeg1), seq1)
	}

	hub.PublishFrame(&mat)
	_, seq2 := hub.Latest()
	if seq2 != 2 {
		t.Errorf("seq after second publish = %d, want 2", seq2)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := strings.Replace(ts.URL, "http", "ws", 1) + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReadout_BroadcastsToClients(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialWS(t, ts, "/api/readout")

	// Wait for the client to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for srv.Readout().hub.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	srv.Readout().PublishAngle("42.0°")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg readoutMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Type != "angle" || msg.Text != "42.0°" {
		t.Errorf("message = %+v, want angle 42.0°", msg)
	}
}

func TestReadout_ReplaysLastToNewClient(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	srv.Readout().PublishAngle("90.0°")

	conn := dialWS(t, ts, "/api/readout")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg readoutMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read replay: %v", err)
	}
	if msg.Text != "90.0°" {
		t.Errorf("replayed text = %q, want 90.0°", msg.Text)
	}
}

func TestCloudHandler_ImplementsWidgetAndReplays(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	// Run the projector's full first-frame setup against the bridge.
	var widget pointcloud.Widget = srv.CloudWidget()
	proj := pointcloud.NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	if err := proj.Update(hand.Landmarks); err != nil {
		t.Fatalf("projector update: %v", err)
	}

	// A client connecting after setup gets render, sequences, and colors
	// replayed in order.
	conn := dialWS(t, ts, "/api/pointcloud")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	wantTypes := []string{"render", "sequences", "colors"}
	for _, want := range wantTypes {
		var msg cloudMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %s message: %v", want, err)
		}
		if msg.Type != want {
			t.Fatalf("message type = %q, want %q", msg.Type, want)
		}

		switch want {
		case "render":
			if len(msg.Points) != detector.NumLandmarks+pointcloud.NumAnchors {
				t.Errorf("render points = %d, want %d", len(msg.Points), detector.NumLandmarks+pointcloud.NumAnchors)
			}
		case "sequences":
			if len(msg.Sequences) != detector.NumFingers {
				t.Errorf("sequences = %d, want %d", len(msg.Sequences), detector.NumFingers)
			}
		case "colors":
			if len(msg.Colors) != detector.NumLandmarks+pointcloud.NumAnchors {
				t.Errorf("colors = %d, want one per point", len(msg.Colors))
			}
		}
	}
}
