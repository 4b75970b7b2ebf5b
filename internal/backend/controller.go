package backend

import (
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/render"
)

// Controller owns the active backend selection and restarts the render
// session when it changes. All switching is serialized: the session is fully
// stopped (its outstanding scheduled frame cancelled, the loop joined)
// before the new backend activates, so two loops can never overlap.
type Controller struct {
	mu       sync.Mutex
	session  *render.Session
	registry Registry
	active   Kind
	onSwitch func(Kind)
}

// NewController creates a Controller for the session. No backend is active
// until the first Select.
func NewController(session *render.Session, registry Registry) *Controller {
	return &Controller{
		session:  session,
		registry: registry,
	}
}

// OnSwitch registers a hook invoked after every successful switch, e.g. to
// persist the selection.
func (c *Controller) OnSwitch(fn func(Kind)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSwitch = fn
}

// Active returns the currently selected backend.
func (c *Controller) Active() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Running reports whether the render loop is active.
func (c *Controller) Running() bool {
	return c.session.Running()
}

// Select switches to the given backend and restarts the render loop from a
// clean frame boundary. If activation fails, the error is returned and the
// loop stays stopped; there is no automatic retry or fallback.
func (c *Controller) Select(kind Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	factory, ok := c.registry[kind]
	if !ok {
		return fmt.Errorf("unknown backend %q", kind)
	}

	if kind == c.active && c.session.Running() {
		return nil
	}

	// Cancel the outstanding scheduled frame and join the loop before
	// touching the detector.
	c.session.Stop()

	det, err := factory()
	if err != nil {
		return fmt.Errorf("activate backend %q: %w", kind, err)
	}

	if old := c.session.SwapDetector(det); old != nil {
		if err := old.Close(); err != nil {
			log.Printf("Error closing previous backend: %v", err)
		}
	}

	c.active = kind
	if c.onSwitch != nil {
		c.onSwitch(kind)
	}

	log.Printf("Backend switched to %s", kind)
	return c.session.Start()
}
