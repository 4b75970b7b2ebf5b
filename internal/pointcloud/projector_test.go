package pointcloud

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestProjector_DatasetLayout(t *testing.T) {
	widget := NewMockWidget()
	p := NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	if err := p.Update(hand.Landmarks); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	dataset := widget.LastDataset
	if len(dataset) != detector.NumLandmarks+NumAnchors {
		t.Fatalf("dataset length = %d, want %d", len(dataset), detector.NumLandmarks+NumAnchors)
	}

	// Hand points come first, each coordinate negated.
	for i := 0; i < detector.NumLandmarks; i++ {
		src := hand.Landmarks[i]
		got := dataset[i]
		if got.X != -src.X || got.Y != -src.Y || got.Z != -src.Z {
			t.Errorf("dataset[%d] = %v, want negated %v", i, got, src)
		}
	}

	// The last 4 entries are the anchors, unmodified.
	anchors := Anchors(640, 480)
	for i, anchor := range anchors {
		got := dataset[detector.NumLandmarks+i]
		if got != anchor {
			t.Errorf("anchor %d = %v, want %v", i, got, anchor)
		}
	}
}

func TestProjector_InitializesExactlyOnce(t *testing.T) {
	widget := NewMockWidget()
	p := NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	for i := 0; i < 3; i++ {
		if err := p.Update(hand.Landmarks); err != nil {
			t.Fatalf("Update() frame %d error = %v", i+1, err)
		}
	}

	if widget.Renders != 1 {
		t.Errorf("Render calls = %d, want 1", widget.Renders)
	}
	if widget.SeqCalls != 1 {
		t.Errorf("RegisterSequences calls = %d, want 1", widget.SeqCalls)
	}
	if widget.ColorCalls != 1 {
		t.Errorf("SetPointColorer calls = %d, want 1", widget.ColorCalls)
	}
	if widget.Updates != 2 {
		t.Errorf("UpdateDataset calls = %d, want 2", widget.Updates)
	}
	if !p.Initialized() {
		t.Error("Initialized() = false after updates")
	}
}

func TestProjector_SequencesMatchFingerTopology(t *testing.T) {
	widget := NewMockWidget()
	p := NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	if err := p.Update(hand.Landmarks); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(widget.Sequences) != detector.NumFingers {
		t.Fatalf("sequences = %d, want %d", len(widget.Sequences), detector.NumFingers)
	}

	for _, f := range detector.Fingers() {
		seq, ok := widget.Sequences[f.String()]
		if !ok {
			t.Errorf("missing sequence for %s", f)
			continue
		}
		if len(seq) != 5 || seq[0] != detector.Wrist {
			t.Errorf("%s sequence = %v, want 5 indices starting at the wrist", f, seq)
		}
	}
}

func TestProjector_ColorerSplitsHandAndAnchors(t *testing.T) {
	widget := NewMockWidget()
	p := NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	if err := p.Update(hand.Landmarks); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		if got := widget.Colorer(i); got != HandPointColor {
			t.Errorf("colorer(%d) = %q, want hand color", i, got)
		}
	}
	for i := detector.NumLandmarks; i < detector.NumLandmarks+NumAnchors; i++ {
		if got := widget.Colorer(i); got != AnchorPointColor {
			t.Errorf("colorer(%d) = %q, want anchor color", i, got)
		}
	}
}

func TestProjector_RejectsTruncatedSet(t *testing.T) {
	widget := NewMockWidget()
	p := NewProjector(widget, 640, 480)

	hand := detector.OpenPalmHand(640, 480)
	err := p.Update(hand.Landmarks[:20])
	if !errors.Is(err, detector.ErrInvalidLandmarkSet) {
		t.Fatalf("Update() error = %v, want ErrInvalidLandmarkSet", err)
	}

	if widget.Renders != 0 || widget.Updates != 0 {
		t.Error("widget was touched for an invalid landmark set")
	}
	if p.Initialized() {
		t.Error("projector initialized from an invalid landmark set")
	}
}
