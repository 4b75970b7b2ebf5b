package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results frame by frame.
type MockDetector struct {
	hands   []Hand
	queue   [][]Hand
	err     error
	detects int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
	m.queue = nil
}

// QueueFrames sets per-call results: the first Detect returns frames[0],
// the second frames[1], and so on. After the queue drains, Detect returns
// empty results.
func (m *MockDetector) QueueFrames(frames ...[]Hand) {
	m.queue = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// DetectCount returns how many times Detect has been called.
func (m *MockDetector) DetectCount() int {
	return m.detects
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	m.detects++
	if m.err != nil {
		return nil, m.err
	}
	if m.queue != nil {
		if len(m.queue) == 0 {
			return nil, nil
		}
		hands := m.queue[0]
		m.queue = m.queue[1:]
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmHand returns a preset Hand with all fingers extended, in pixel
// coordinates of a width x height frame. Useful as a fixture for projector
// and loop tests.
func OpenPalmHand(width, height float64) Hand {
	// Normalized open-palm pose, scaled to the frame below.
	norm := [NumLandmarks]Point3D{
		Wrist:     {X: 0.50, Y: 0.80, Z: 0.00},
		ThumbCMC:  {X: 0.55, Y: 0.75, Z: 0.02},
		ThumbMCP:  {X: 0.62, Y: 0.70, Z: 0.03},
		ThumbIP:   {X: 0.68, Y: 0.65, Z: 0.03},
		ThumbTip:  {X: 0.73, Y: 0.60, Z: 0.03},
		IndexMCP:  {X: 0.55, Y: 0.68, Z: 0.00},
		IndexPIP:  {X: 0.57, Y: 0.55, Z: 0.00},
		IndexDIP:  {X: 0.58, Y: 0.45, Z: 0.00},
		IndexTip:  {X: 0.58, Y: 0.35, Z: 0.00},
		MiddleMCP: {X: 0.50, Y: 0.66, Z: 0.00},
		MiddlePIP: {X: 0.50, Y: 0.52, Z: 0.00},
		MiddleDIP: {X: 0.50, Y: 0.40, Z: 0.00},
		MiddleTip: {X: 0.50, Y: 0.28, Z: 0.00},
		RingMCP:   {X: 0.45, Y: 0.68, Z: 0.00},
		RingPIP:   {X: 0.43, Y: 0.55, Z: 0.00},
		RingDIP:   {X: 0.42, Y: 0.45, Z: 0.00},
		RingTip:   {X: 0.42, Y: 0.35, Z: 0.00},
		PinkyMCP:  {X: 0.40, Y: 0.70, Z: 0.00},
		PinkyPIP:  {X: 0.37, Y: 0.60, Z: 0.00},
		PinkyDIP:  {X: 0.35, Y: 0.50, Z: 0.00},
		PinkyTip:  {X: 0.34, Y: 0.42, Z: 0.00},
	}

	hand := Hand{
		Landmarks:  make(LandmarkSet, NumLandmarks),
		Handedness: "Right",
		Score:      0.95,
	}
	for i, p := range norm {
		hand.Landmarks[i] = Point3D{X: p.X * width, Y: p.Y * height, Z: p.Z * width}
	}
	return hand
}
