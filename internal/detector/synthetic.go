package detector

import (
	"math"
	"time"

	"gocv.io/x/gocv"
)

// SyntheticDetector is a pure-Go backend that emits a slowly drifting
// open-palm hand. It stands in for the MediaPipe service on machines
// without Python, keeping the whole visualization pipeline exercisable.
type SyntheticDetector struct {
	start time.Time
}

// NewSyntheticDetector creates a new SyntheticDetector.
func NewSyntheticDetector() *SyntheticDetector {
	return &SyntheticDetector{start: time.Now()}
}

// Detect returns one synthetic hand positioned inside the frame, swaying
// around the frame center over a few-second period.
func (s *SyntheticDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	w := float64(frame.Cols())
	h := float64(frame.Rows())

	hand := OpenPalmHand(w, h)

	// Sway around the frame center with a 4 second period.
	t := time.Since(s.start).Seconds()
	dx := 0.15 * w * math.Sin(2*math.Pi*t/4)
	dy := 0.05 * h * math.Sin(2*math.Pi*t/7)
	for i := range hand.Landmarks {
		hand.Landmarks[i].X += dx
		hand.Landmarks[i].Y += dy
	}

	return []Hand{hand}, nil
}

// Close is a no-op for the synthetic detector.
func (s *SyntheticDetector) Close() error {
	return nil
}
