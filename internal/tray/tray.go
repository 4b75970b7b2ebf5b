// Package tray provides a system tray interface for the Mudra hand
// visualization pipeline.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/backend"
)

// Tray represents the system tray application. It exposes backend selection
// as a radio group, a pause toggle, and quit.
type Tray struct {
	onBackend func(kind backend.Kind)
	onToggle  func(paused bool)
	onQuit    func()
	backends  []backend.Kind
	active    backend.Kind
	paused    bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuReadout  *systray.MenuItem
	menuBackends map[backend.Kind]*systray.MenuItem
}

// New creates a new Tray offering the given backends, with the active one
// checked.
func New(backends []backend.Kind, active backend.Kind) *Tray {
	return &Tray{
		backends:     backends,
		active:       active,
		menuBackends: make(map[backend.Kind]*systray.MenuItem),
	}
}

// OnBackend sets the callback invoked when a backend menu item is clicked.
func (t *Tray) OnBackend(fn func(kind backend.Kind)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onBackend = fn
}

// OnToggle sets the callback invoked when the pause state is toggled.
func (t *Tray) OnToggle(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit tears down the tray from outside a menu click.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Hand Visualization")

	t.menuToggle = systray.AddMenuItem("● Running", "Pause or resume the render loop")
	systray.AddSeparator()

	t.menuReadout = systray.AddMenuItem("Angle: none", "Latest angle reading")
	t.menuReadout.Disable()
	systray.AddSeparator()

	header := systray.AddMenuItem("Backend", "Landmark backend")
	header.Disable()
	for _, kind := range t.backends {
		item := systray.AddMenuItemCheckbox(string(kind), "Switch landmark backend", kind == t.active)
		t.menuBackends[kind] = item
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	// One goroutine per backend item keeps the select above simple.
	for kind, item := range t.menuBackends {
		go func(kind backend.Kind, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleBackend(kind)
			}
		}(kind, item)
	}
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the pause menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuToggle.SetTitle("○ Paused")
	} else {
		t.menuToggle.SetTitle("● Running")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

// handleBackend handles a backend menu item click.
func (t *Tray) handleBackend(kind backend.Kind) {
	t.mu.RLock()
	callback := t.onBackend
	t.mu.RUnlock()

	if callback != nil {
		callback(kind)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetActive checks the given backend's menu item and unchecks the rest.
// Call it from the switch hook so the menu tracks reality even when a
// selection fails.
func (t *Tray) SetActive(kind backend.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = kind
	for k, item := range t.menuBackends {
		if item == nil {
			continue
		}
		if k == kind {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// SetReadout updates the angle display in the menu.
func (t *Tray) SetReadout(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuReadout != nil {
		t.menuReadout.SetTitle(fmt.Sprintf("Angle: %s", text))
	}
}
