// Package pointcloud produces the dataset consumed by the 3D scatter
// widget and owns the widget's one-time initialization.
package pointcloud

import "github.com/ayusman/mudra/internal/detector"

// Point colors handed to the widget's colorer. Anchors are painted to blend
// into the widget background so only the hand reads as content.
const (
	HandPointColor   = "#ffd600"
	AnchorPointColor = "#1a1a1a"
)

// Colorer maps a dataset index to a color label.
type Colorer func(index int) string

// Widget is the contract of the external 3D scatter widget. Render and the
// registration calls are expensive and must happen exactly once per session;
// UpdateDataset is the cheap per-frame path.
type Widget interface {
	// Render performs the widget's full initial render with the dataset.
	Render(dataset []detector.Point3D) error

	// UpdateDataset pushes a new dataset without re-running setup.
	UpdateDataset(dataset []detector.Point3D) error

	// RegisterSequences installs named index sequences the widget connects
	// with its own line rendering.
	RegisterSequences(sequences map[string][]int) error

	// SetPointColorer installs the per-index color callback.
	SetPointColorer(c Colorer) error
}
