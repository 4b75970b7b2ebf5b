// Package detector provides hand landmark estimation interfaces and types
// for the Mudra visualization pipeline.
package detector

import "errors"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidLandmarkSet is returned when a landmark set does not contain
// exactly NumLandmarks points. A truncated set must never be rendered as a
// partial skeleton.
var ErrInvalidLandmarkSet = errors.New("landmark set must contain exactly 21 points")

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkSet is the ordered sequence of hand landmarks for one detected
// hand, in pixel/model space. Index semantics are fixed (0 = wrist,
// 4 = thumb tip, 8 = index tip, ...). A set is produced fresh each frame and
// only read after that.
type LandmarkSet []Point3D

// Validate checks that the set holds the full fixed topology.
func (l LandmarkSet) Validate() error {
	if len(l) != NumLandmarks {
		return ErrInvalidLandmarkSet
	}
	return nil
}

// Hand represents one detection result from the estimator.
type Hand struct {
	Landmarks  LandmarkSet `json:"landmarks"`
	Handedness string      `json:"handedness"` // "Left" or "Right"
	Score      float64     `json:"score"`
}

// Finger identifies one of the five fingers of the tracked hand.
type Finger int

// The five fingers, in landmark-table order.
const (
	Thumb Finger = iota
	IndexFinger
	MiddleFinger
	RingFinger
	Pinky
	NumFingers = 5
)

var fingerNames = [NumFingers]string{"thumb", "indexFinger", "middleFinger", "ringFinger", "pinky"}

// fingerIndices maps each finger to the 5 landmark indices forming its
// polyline. Every finger chain starts at the wrist.
var fingerIndices = [NumFingers][5]int{
	Thumb:        {Wrist, ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	IndexFinger:  {Wrist, IndexMCP, IndexPIP, IndexDIP, IndexTip},
	MiddleFinger: {Wrist, MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	RingFinger:   {Wrist, RingMCP, RingPIP, RingDIP, RingTip},
	Pinky:        {Wrist, PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// String returns the finger's canonical name.
func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return "unknown"
	}
	return fingerNames[f]
}

// Indices returns the landmark indices forming the finger's polyline,
// starting at the wrist.
func (f Finger) Indices() [5]int {
	return fingerIndices[f]
}

// Fingers returns all five fingers in table order.
func Fingers() [NumFingers]Finger {
	return [NumFingers]Finger{Thumb, IndexFinger, MiddleFinger, RingFinger, Pinky}
}
