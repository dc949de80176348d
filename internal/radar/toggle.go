package radar

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

const (
	// ControlClassName is the container class host maps style controls by.
	ControlClassName = "mapboxgl-ctrl mapboxgl-ctrl-group"
	// ButtonLabel is the umbrella glyph shown on the toggle button.
	ButtonLabel = "☔"

	visibilityProperty = "visibility"
	visibilityVisible  = "visible"
	visibilityNone     = "none"
)

// Emphasis is the visual weight of the toggle button.
type Emphasis int

const (
	EmphasisFull Emphasis = iota
	EmphasisReduced
)

// Opacity returns the button opacity for e.
func (e Emphasis) Opacity() float64 {
	if e == EmphasisFull {
		return 1.0
	}
	return 0.5
}

func (e Emphasis) String() string {
	if e == EmphasisFull {
		return "full"
	}
	return "reduced"
}

// Button is the toggle's single activation element.
type Button struct {
	mu       *sync.Mutex
	label    string
	emphasis Emphasis
	onClick  func() error
}

// Label returns the button text.
func (b *Button) Label() string { return b.label }

// Emphasis returns the current visual weight.
func (b *Button) Emphasis() Emphasis {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.emphasis
}

// Click fires the registered transition trigger.
func (b *Button) Click() error {
	return b.onClick()
}

// Container holds the button at its mount point.
type Container struct {
	ClassName string
	Button    *Button

	mu      *sync.Mutex
	mounted bool
}

// Mounted reports whether the container is still in place.
func (c *Container) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// ControlHandle represents a mounted toggle.
type ControlHandle struct {
	ID        string
	Container *Container
}

// Toggle shows or hides one map layer. It starts Visible.
type Toggle struct {
	mu       sync.Mutex
	layerKey string
	visible  bool
	m        MapHandle
	handle   *ControlHandle
}

var _ Control = (*Toggle)(nil)

// NewToggle creates a toggle bound to layerKey.
func NewToggle(layerKey string) *Toggle {
	return &Toggle{layerKey: layerKey, visible: true}
}

// LayerKey returns the layer this toggle drives.
func (t *Toggle) LayerKey() string { return t.layerKey }

// Visible reports the current state.
func (t *Toggle) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Handle returns the mounted handle, or nil when not attached.
func (t *Toggle) Handle() *ControlHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle
}

// Attach binds the toggle to m and builds its button. Clicking the button toggles.
func (t *Toggle) Attach(m MapHandle) (*ControlHandle, error) {
	if isNilHandle(m) {
		return nil, fmt.Errorf("%w: attach without a map handle", ErrLifecycleMisuse)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handle != nil {
		return nil, fmt.Errorf("%w: toggle for %q already attached", ErrLifecycleMisuse, t.layerKey)
	}

	emphasis := EmphasisFull
	if !t.visible {
		emphasis = EmphasisReduced
	}

	btn := &Button{
		mu:       &t.mu,
		label:    ButtonLabel,
		emphasis: emphasis,
		onClick:  t.Toggle,
	}

	t.m = m
	t.handle = &ControlHandle{
		ID: uuid.NewString(),
		Container: &Container{
			ClassName: ControlClassName,
			Button:    btn,
			mu:        &t.mu,
			mounted:   true,
		},
	}
	return t.handle, nil
}

// Toggle flips visibility and mirrors it onto the map layer and the button.
// The state is left untouched if the map rejects the update.
func (t *Toggle) Toggle() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.m == nil || t.handle == nil {
		return fmt.Errorf("%w: toggle on detached control for %q", ErrLifecycleMisuse, t.layerKey)
	}

	next := !t.visible
	value := visibilityNone
	emphasis := EmphasisReduced
	if next {
		value = visibilityVisible
		emphasis = EmphasisFull
	}

	if err := t.m.SetLayoutProperty(t.layerKey, visibilityProperty, value); err != nil {
		return fmt.Errorf("set %s visibility: %w", t.layerKey, err)
	}

	t.visible = next
	t.handle.Container.Button.emphasis = emphasis
	return nil
}

// Detach unmounts the button and drops the map binding. A second call fails.
func (t *Toggle) Detach() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handle == nil {
		return fmt.Errorf("%w: detach on control for %q that is not attached", ErrLifecycleMisuse, t.layerKey)
	}

	t.handle.Container.mounted = false
	t.handle = nil
	t.m = nil
	return nil
}
