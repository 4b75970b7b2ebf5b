package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark estimation backends.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands, best first.
	// Returns an empty slice if no hands are detected; an empty result is a
	// normal per-frame outcome, not an error.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand landmark estimation.
type Config struct {
	// MaxHands is the maximum number of hands the estimator reports
	// (default: 2). The pipeline only renders the first result.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// UseGPU requests the estimator's GPU delegate where the backend
	// supports one.
	UseGPU bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
