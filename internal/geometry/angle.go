// Package geometry provides the vector math behind the on-screen angle
// readout. All functions are pure.
package geometry

import (
	"errors"
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrNotComputable is returned when the angle between two points is
// undefined, i.e. when either point coincides with the origin. The readout
// must never show NaN.
var ErrNotComputable = errors.New("angle not computable for zero-magnitude vector")

// Angle computes the angle in degrees between the vectors from the origin
// to a and to b. The result is always in [0, 180].
func Angle(a, b detector.Point3D) (float64, error) {
	magA := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	magB := math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
	if magA == 0 || magB == 0 {
		return 0, ErrNotComputable
	}

	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z
	ratio := dot / (magA * magB)

	// Floating-point error can push near-colinear vectors slightly outside
	// acos's domain; clamp instead of failing.
	if ratio > 1 {
		ratio = 1
	} else if ratio < -1 {
		ratio = -1
	}

	return math.Acos(ratio) * 180 / math.Pi, nil
}
