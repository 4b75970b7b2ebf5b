// Package overlay turns landmark sets into drawable skeleton geometry for
// the display surface.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Drawing constants.
const (
	// JointRadius is the radius in pixels of the filled circle drawn at
	// each landmark.
	JointRadius = 4
	// BoneThickness is the line thickness in pixels of finger polylines.
	BoneThickness = 2
)

var (
	jointColor = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	boneColor  = color.RGBA{R: 0, G: 204, B: 102, A: 255}
)

// Polyline is one finger's open chain of landmarks, starting at the wrist.
type Polyline struct {
	Finger detector.Finger
	Points []detector.Point3D
}

// Skeleton holds the draw commands for one hand: a filled circle per
// landmark and an open polyline per finger. The commands are independent of
// draw order; strokes do not blend.
type Skeleton struct {
	Joints    []detector.Point3D
	Polylines []Polyline
}

// Project maps a full landmark set into skeleton geometry. A set of any
// other length fails with detector.ErrInvalidLandmarkSet instead of
// producing a partial skeleton.
func Project(lm detector.LandmarkSet) (*Skeleton, error) {
	if err := lm.Validate(); err != nil {
		return nil, err
	}

	s := &Skeleton{
		Joints:    lm,
		Polylines: make([]Polyline, 0, detector.NumFingers),
	}

	for _, f := range detector.Fingers() {
		indices := f.Indices()
		points := make([]detector.Point3D, len(indices))
		for i, idx := range indices {
			points[i] = lm[idx]
		}
		s.Polylines = append(s.Polylines, Polyline{Finger: f, Points: points})
	}

	return s, nil
}

// Draw renders the skeleton onto img using the landmarks' x/y pixel
// coordinates. Depth is ignored on the 2D surface.
func (s *Skeleton) Draw(img *gocv.Mat) {
	for _, line := range s.Polylines {
		for i := 1; i < len(line.Points); i++ {
			a := line.Points[i-1]
			b := line.Points[i]
			gocv.Line(img,
				image.Pt(int(a.X), int(a.Y)),
				image.Pt(int(b.X), int(b.Y)),
				boneColor, BoneThickness)
		}
	}

	for _, p := range s.Joints {
		gocv.Circle(img, image.Pt(int(p.X), int(p.Y)), JointRadius, jointColor, -1)
	}
}
