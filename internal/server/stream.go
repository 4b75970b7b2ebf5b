package server

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// FrameHub holds the latest display frame as JPEG. It implements
// render.FrameSink: the session publishes each finished frame here and the
// MJPEG handler serves whatever is newest.
type FrameHub struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewFrameHub creates an empty FrameHub.
func NewFrameHub() *FrameHub {
	return &FrameHub{}
}

// PublishFrame encodes the frame and replaces the hub's latest image. The
// Mat is not retained.
func (h *FrameHub) PublishFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding display frame: %v", err)
		return
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	h.mu.Lock()
	h.jpeg = data
	h.seq++
	h.mu.Unlock()
}

// Latest returns the newest JPEG and its sequence number. The sequence lets
// pollers skip frames they have already sent.
func (h *FrameHub) Latest() ([]byte, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.seq
}

// StreamHandler serves the display surface as MJPEG.
type StreamHandler struct {
	frames *FrameHub
}

// NewStreamHandler creates a new StreamHandler over the hub.
func NewStreamHandler(frames *FrameHub) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var sent uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg, seq := h.frames.Latest()
		if jpeg == nil || seq == sent {
			time.Sleep(33 * time.Millisecond)
			continue
		}
		sent = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
