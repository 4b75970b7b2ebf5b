package render

import "gocv.io/x/gocv"

// ReadoutSink receives the latest computed angle as a human-readable string,
// once per frame where it is computable.
type ReadoutSink interface {
	PublishAngle(text string)
}

// FrameSink receives the finished display frame for a render pass. The Mat
// is only valid for the duration of the call; implementations that keep the
// pixels must copy or encode them before returning.
type FrameSink interface {
	PublishFrame(frame *gocv.Mat)
}

// ReadoutFunc adapts a function to the ReadoutSink interface.
type ReadoutFunc func(text string)

// PublishAngle calls f(text).
func (f ReadoutFunc) PublishAngle(text string) { f(text) }
