// Package backend owns the enumerated set of inference backends and the
// controller that switches the render loop between them at runtime.
package backend

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Kind identifies one inference backend.
type Kind string

// The available backends.
const (
	// MediaPipe runs the MediaPipe landmark service on its CPU delegate.
	MediaPipe Kind = "mediapipe"
	// MediaPipeGPU runs the landmark service on its GPU delegate.
	MediaPipeGPU Kind = "mediapipe-gpu"
	// Synthetic emits a generated hand; useful without Python installed.
	Synthetic Kind = "synthetic"
)

// Kinds returns all selectable backends in display order.
func Kinds() []Kind {
	return []Kind{MediaPipe, MediaPipeGPU, Synthetic}
}

// ParseKind validates a backend name from config, API, or tray input.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// Factory activates a backend, returning a ready detector. Activation is
// eager: a factory must not return until the backend is usable, so a switch
// fails here rather than on the first frame.
type Factory func() (detector.Detector, error)

// Registry maps each backend kind to its factory.
type Registry map[Kind]Factory

// DefaultRegistry builds the standard registry for the given estimator
// configuration.
func DefaultRegistry(cfg detector.Config) Registry {
	mediapipe := func(useGPU bool) Factory {
		return func() (detector.Detector, error) {
			c := cfg
			c.UseGPU = useGPU
			d, err := detector.NewMediaPipeDetector(c)
			if err != nil {
				return nil, err
			}
			if err := d.Warm(); err != nil {
				d.Close()
				return nil, err
			}
			return d, nil
		}
	}

	return Registry{
		MediaPipe:    mediapipe(false),
		MediaPipeGPU: mediapipe(true),
		Synthetic: func() (detector.Detector, error) {
			return detector.NewSyntheticDetector(), nil
		},
	}
}
