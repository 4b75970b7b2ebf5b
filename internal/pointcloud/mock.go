package pointcloud

import "github.com/ayusman/mudra/internal/detector"

// MockWidget records widget calls for tests.
type MockWidget struct {
	Renders     int
	Updates     int
	SeqCalls    int
	ColorCalls  int
	LastDataset []detector.Point3D
	Sequences   map[string][]int
	Colorer     Colorer
	Err         error
}

// NewMockWidget creates a new MockWidget.
func NewMockWidget() *MockWidget {
	return &MockWidget{}
}

func (m *MockWidget) Render(dataset []detector.Point3D) error {
	m.Renders++
	m.LastDataset = dataset
	return m.Err
}

func (m *MockWidget) UpdateDataset(dataset []detector.Point3D) error {
	m.Updates++
	m.LastDataset = dataset
	return m.Err
}

func (m *MockWidget) RegisterSequences(sequences map[string][]int) error {
	m.SeqCalls++
	m.Sequences = sequences
	return m.Err
}

func (m *MockWidget) SetPointColorer(c Colorer) error {
	m.ColorCalls++
	m.Colorer = c
	return m.Err
}
