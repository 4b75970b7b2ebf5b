package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(rows, cols int, value uint8) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(value), float64(value), float64(value), 0),
		rows, cols, gocv.MatTypeCV8UC3)
	return &mat
}

func TestMockCamera_Playback(t *testing.T) {
	f1 := solidFrame(480, 640, 0)
	f2 := solidFrame(480, 640, 255)
	defer f1.Close()
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{f1, f2}, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	w, h := cam.Dimensions()
	if w != 640 || h != 480 {
		t.Errorf("Dimensions() = %dx%d, want 640x480", w, h)
	}

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		frame.Close()
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() past the end should fail when not looping")
	}

	if cam.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", cam.Reads())
	}
}

func TestMockCamera_OpenError(t *testing.T) {
	cam := NewMockCamera(nil, false)
	cam.SetOpenError(errors.New("device busy"))

	if err := cam.Open(); err == nil {
		t.Fatal("Open() should propagate the configured error")
	}
	if cam.IsOpen() {
		t.Error("camera reports open after failed Open()")
	}
}

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	frame := solidFrame(120, 160, 128)
	defer frame.Close()

	if detected, _ := m.Detect(frame); detected {
		t.Error("first frame must not report motion")
	}
}

func TestMotionDetector_DetectsChange(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := solidFrame(120, 160, 10)
	bright := solidFrame(120, 160, 240)
	defer dark.Close()
	defer bright.Close()

	m.Detect(dark)

	detected, percent := m.Detect(bright)
	if !detected {
		t.Errorf("expected motion between contrasting frames (changed %.1f%%)", percent)
	}

	// A repeat of the same frame settles back to no motion.
	if detected, _ := m.Detect(bright); detected {
		t.Error("identical consecutive frames should not report motion")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := solidFrame(120, 160, 10)
	bright := solidFrame(120, 160, 240)
	defer dark.Close()
	defer bright.Close()

	m.Detect(dark)
	m.Reset()

	// After a reset the bright frame is a baseline again.
	if detected, _ := m.Detect(bright); detected {
		t.Error("frame after Reset must not report motion")
	}
}
