// Package render drives the per-frame visualization pipeline: capture,
// inference, skeleton overlay, angle readout, and point-cloud updates.
package render

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/pointcloud"
)

// Frame pacing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the scene moves.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping to IdleFPS.
	IdleTimeout = 2 * time.Second
)

// Config holds the collaborators and settings of a render session.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector

	// Widget is the external 3D scatter widget; nil disables the point
	// cloud.
	Widget pointcloud.Widget

	// Readout receives the formatted angle; nil disables the readout.
	Readout ReadoutSink

	// Display receives the finished frame; nil disables publishing.
	Display FrameSink

	// Motion, when set, governs the idle/active frame rate.
	Motion *capture.MotionDetector

	// DisplayWidth/DisplayHeight size the display surface. Zero means the
	// camera's native dimensions.
	DisplayWidth  int
	DisplayHeight int

	// AnglePair is the two landmark indices the angle is measured between.
	// The zero value means thumb tip and index tip.
	AnglePair [2]int

	IdleFPS   int
	ActiveFPS int
}

// Session owns the render loop and all cross-frame mutable state: the
// single outstanding frame timer, the point-cloud projector (with its
// one-time init flag), and the active detector. One frame's work fully
// completes before the next is scheduled; the loop runs on one goroutine.
type Session struct {
	camera    capture.Camera
	widget    pointcloud.Widget
	readout   ReadoutSink
	display   FrameSink
	motion    *capture.MotionDetector
	anglePair [2]int
	idleFPS   int
	activeFPS int

	mu       sync.Mutex
	det      detector.Detector
	cloud    *pointcloud.Projector
	width    int
	height   int
	paused   bool
	stopCh   chan struct{}
	done     chan struct{}
}

// NewSession creates a Session from the config, applying defaults.
func NewSession(cfg Config) *Session {
	if cfg.AnglePair == [2]int{} {
		cfg.AnglePair = [2]int{detector.ThumbTip, detector.IndexTip}
	}
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = IdleFPS
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = ActiveFPS
	}

	return &Session{
		camera:    cfg.Camera,
		widget:    cfg.Widget,
		readout:   cfg.Readout,
		display:   cfg.Display,
		motion:    cfg.Motion,
		anglePair: cfg.AnglePair,
		idleFPS:   cfg.IdleFPS,
		activeFPS: cfg.ActiveFPS,
		det:       cfg.Detector,
		width:     cfg.DisplayWidth,
		height:    cfg.DisplayHeight,
	}
}

// Start opens the video source and launches the render loop. A video source
// that cannot be acquired is fatal: the error is returned once and the loop
// never starts. Start on a running session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.prepare(); err != nil {
		return err
	}

	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stopCh, s.done)

	log.Println("Render loop started")
	return nil
}

// prepare acquires the video source and sizes the display surface and
// point-cloud projector. Callers must hold s.mu.
func (s *Session) prepare() error {
	if s.det == nil {
		return errors.New("no detector configured")
	}

	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("acquire video source: %w", err)
	}

	if s.width <= 0 || s.height <= 0 {
		s.width, s.height = s.camera.Dimensions()
	}

	// The projector is created once and survives restarts, so the widget's
	// expensive setup runs exactly once per session regardless of how often
	// the backend switches.
	if s.cloud == nil && s.widget != nil {
		s.cloud = pointcloud.NewProjector(s.widget, float64(s.width), float64(s.height))
	}

	s.camera.SetFPS(s.activeFPS)
	return nil
}

// Stop cancels the outstanding scheduled frame and waits for the loop
// goroutine to exit, so no two loops can ever overlap. Stopping a stopped
// session is a no-op. The camera stays open for a later restart.
func (s *Session) Stop() {
	s.mu.Lock()
	stopCh, done := s.stopCh, s.done
	s.stopCh, s.done = nil, nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-done

	log.Println("Render loop stopped")
}

// Close stops the loop and releases the camera, motion detector, and
// detector.
func (s *Session) Close() {
	s.Stop()

	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if s.motion != nil {
		s.motion.Close()
	}

	s.mu.Lock()
	det := s.det
	s.det = nil
	s.mu.Unlock()

	if det != nil {
		if err := det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// Running reports whether the loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

// SetPaused suspends or resumes per-frame work. Frames keep being scheduled
// while paused; they just do nothing.
func (s *Session) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// IsPaused reports whether per-frame work is suspended.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Detector returns the active detector.
func (s *Session) Detector() detector.Detector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.det
}

// SwapDetector installs a new detector and returns the previous one. The
// caller must hold the loop stopped while swapping.
func (s *Session) SwapDetector(d detector.Detector) detector.Detector {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.det
	s.det = d
	return old
}

// run is the render loop. Exactly one frame timer is outstanding at any
// time: it is re-armed only after a frame's work completes, and closing
// stopCh cancels the pending frame before it starts.
//
// Pacing follows the motion detector: active FPS while the scene moves,
// idle FPS after IdleTimeout without motion.
func (s *Session) run(stopCh chan struct{}, done chan struct{}) {
	defer close(done)

	idleInterval := time.Second / time.Duration(s.idleFPS)
	activeInterval := time.Second / time.Duration(s.activeFPS)

	interval := activeInterval
	active := true
	lastMotion := time.Now()

	timer := time.NewTimer(0) // first frame fires immediately
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timer.C:
		}

		motion := s.step()

		if motion {
			lastMotion = time.Now()
			if !active {
				active = true
				interval = activeInterval
				s.camera.SetFPS(s.activeFPS)
				log.Println("Switched to active frame rate")
			}
		} else if active && s.motion != nil && time.Since(lastMotion) > IdleTimeout {
			active = false
			interval = idleInterval
			s.camera.SetFPS(s.idleFPS)
			log.Println("Switched to idle frame rate")
		}

		// Every non-fatal path ends here: the next frame is always
		// scheduled.
		timer.Reset(interval)
	}
}

// step performs one frame's work: draw the mirrored video at display size,
// request one inference result, and on success dispatch to the skeleton
// overlay, angle readout, and point cloud. Per-frame failures are contained
// within the frame. Returns whether motion was detected.
func (s *Session) step() bool {
	if s.IsPaused() {
		return false
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return false
	}
	defer frame.Close()

	motion := false
	if s.motion != nil {
		motion, _ = s.motion.Detect(frame)
	}

	// Mirror horizontally so the overlay matches a mirror-like preview,
	// then letterbox-free scale to the display surface's dimensions.
	// Inference runs on this canvas so landmark coordinates line up with
	// what is drawn.
	canvas := gocv.NewMat()
	defer canvas.Close()
	gocv.Flip(*frame, &canvas, 1)

	if canvas.Cols() != s.width || canvas.Rows() != s.height {
		resized := gocv.NewMat()
		gocv.Resize(canvas, &resized, image.Pt(s.width, s.height), 0, 0, gocv.InterpolationLinear)
		canvas.Close()
		canvas = resized
	}

	hands, err := s.Detector().Detect(&canvas)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		s.publish(&canvas)
		return motion
	}

	if len(hands) == 0 {
		// Nothing to render this frame; the next one is still scheduled.
		s.publish(&canvas)
		return motion
	}

	// Only the first result drives the visualization.
	lm := hands[0].Landmarks

	skeleton, err := overlay.Project(lm)
	if err != nil {
		log.Printf("Skipping render: %v", err)
		s.publish(&canvas)
		return motion
	}
	skeleton.Draw(&canvas)

	if s.readout != nil {
		if deg, err := geometry.Angle(lm[s.anglePair[0]], lm[s.anglePair[1]]); err == nil {
			s.readout.PublishAngle(fmt.Sprintf("%.1f°", deg))
		}
		// Not-computable geometry leaves the readout untouched; the next
		// frame is the retry.
	}

	if s.cloud != nil {
		if err := s.cloud.Update(lm); err != nil {
			log.Printf("Point cloud update failed: %v", err)
		}
	}

	s.publish(&canvas)
	return motion
}

func (s *Session) publish(canvas *gocv.Mat) {
	if s.display != nil {
		s.display.PublishFrame(canvas)
	}
}
