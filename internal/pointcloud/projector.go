package pointcloud

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// NumAnchors is the number of fixed anchor points appended to every dataset.
const NumAnchors = 4

// Anchors returns the 4 corner points of a bounding volume sized to a
// width x height video frame. They are constant for a session and keep the
// widget's auto-scaling stable while the hand moves.
func Anchors(width, height float64) [NumAnchors]detector.Point3D {
	return [NumAnchors]detector.Point3D{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: -height, Z: 0},
		{X: -width, Y: 0, Z: 0},
		{X: -width, Y: -height, Z: 0},
	}
}

// Projector feeds the scatter widget. The first Update performs the
// widget's full setup (render, finger connectivity, point colorer); every
// later Update only pushes a fresh dataset. The initialized flag persists
// for the whole session, including across backend switches.
type Projector struct {
	widget      Widget
	anchors     [NumAnchors]detector.Point3D
	initialized bool
}

// NewProjector creates a Projector for a session with the given frame size.
func NewProjector(widget Widget, frameWidth, frameHeight float64) *Projector {
	return &Projector{
		widget:  widget,
		anchors: Anchors(frameWidth, frameHeight),
	}
}

// Initialized reports whether the one-time widget setup has run.
func (p *Projector) Initialized() bool {
	return p.initialized
}

// Update projects the landmark set into the widget's dataset: every
// coordinate negated to match the widget's orientation, followed by the 4
// anchors unmodified. Sets of the wrong length fail with
// detector.ErrInvalidLandmarkSet before touching the widget.
func (p *Projector) Update(lm detector.LandmarkSet) error {
	if err := lm.Validate(); err != nil {
		return err
	}

	dataset := make([]detector.Point3D, 0, len(lm)+NumAnchors)
	for _, pt := range lm {
		dataset = append(dataset, detector.Point3D{X: -pt.X, Y: -pt.Y, Z: -pt.Z})
	}
	dataset = append(dataset, p.anchors[:]...)

	if p.initialized {
		return p.widget.UpdateDataset(dataset)
	}

	if err := p.widget.Render(dataset); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}
	if err := p.widget.RegisterSequences(fingerSequences()); err != nil {
		return fmt.Errorf("register sequences: %w", err)
	}
	if err := p.widget.SetPointColorer(handColorer(len(lm))); err != nil {
		return fmt.Errorf("set colorer: %w", err)
	}
	p.initialized = true
	return nil
}

// fingerSequences builds the widget's connectivity table from the same
// finger topology the skeleton projector draws.
func fingerSequences() map[string][]int {
	sequences := make(map[string][]int, detector.NumFingers)
	for _, f := range detector.Fingers() {
		indices := f.Indices()
		sequences[f.String()] = indices[:]
	}
	return sequences
}

// handColorer paints hand-range indices one color and anchor indices
// another, visually suppressing the anchors.
func handColorer(handPoints int) Colorer {
	return func(index int) string {
		if index < handPoints {
			return HandPointColor
		}
		return AnchorPointColor
	}
}
