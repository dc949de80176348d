// Package stylemap is an in-memory host map. It accepts sources, layers and
// controls the way a browser map engine would and renders the result as a
// style document that frontends can load directly.
package stylemap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/i474232898/radar-overlay/internal/radar"
)

// StyleVersion is the style specification version emitted by Style.
const StyleVersion = 8

var (
	ErrDuplicateSource = errors.New("source already exists")
	ErrDuplicateLayer  = errors.New("layer already exists")
	ErrUnknownSource   = errors.New("source does not exist")
	ErrUnknownLayer    = errors.New("layer does not exist")
	ErrUnknownControl  = errors.New("control is not mounted")
)

// Style is the rendered map document.
type Style struct {
	Version  int                               `json:"version"`
	Sources  map[string]radar.SourceDescriptor `json:"sources"`
	Layers   []radar.LayerDescriptor           `json:"layers"`
	Controls []ControlInfo                     `json:"controls,omitempty"`
}

// ControlInfo describes a mounted control.
type ControlInfo struct {
	ID        string  `json:"id"`
	ClassName string  `json:"className"`
	Label     string  `json:"label"`
	Opacity   float64 `json:"opacity"`
}

type mountedControl struct {
	control radar.Control
	handle  *radar.ControlHandle
}

// Map implements radar.MapHandle in memory.
type Map struct {
	mu       sync.Mutex
	sources  map[string]radar.SourceDescriptor
	layers   []radar.LayerDescriptor
	controls []mountedControl
}

var (
	_ radar.MapHandle    = (*Map)(nil)
	_ radar.StyleRemover = (*Map)(nil)
)

// New creates an empty map. baseLayers are added as background placeholders so
// overlays can be stacked beneath them.
func New(baseLayers ...string) *Map {
	m := &Map{sources: make(map[string]radar.SourceDescriptor)}
	for _, id := range baseLayers {
		if id == "" {
			continue
		}
		m.layers = append(m.layers, radar.LayerDescriptor{ID: id, Type: "background"})
	}
	return m
}

func (m *Map) AddSource(key string, source radar.SourceDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSource, key)
	}
	m.sources[key] = source
	return nil
}

func (m *Map) AddLayer(layer radar.LayerDescriptor, beforeLayer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if layer.ID == "" {
		return fmt.Errorf("layer id is required")
	}
	if m.layerIndex(layer.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, layer.ID)
	}
	if layer.Source != "" {
		if _, ok := m.sources[layer.Source]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSource, layer.Source)
		}
	}

	if beforeLayer == "" {
		m.layers = append(m.layers, layer)
		return nil
	}

	idx := m.layerIndex(beforeLayer)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, beforeLayer)
	}
	m.layers = append(m.layers, radar.LayerDescriptor{})
	copy(m.layers[idx+1:], m.layers[idx:])
	m.layers[idx] = layer
	return nil
}

// AddControl mounts c. The lock is not held while c attaches.
func (m *Map) AddControl(c radar.Control) error {
	if c == nil {
		return fmt.Errorf("control is required")
	}
	h, err := c.Attach(m)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.controls = append(m.controls, mountedControl{control: c, handle: h})
	m.mu.Unlock()
	return nil
}

// RemoveControl unmounts c. A control that already detached itself is only
// dropped from the map.
func (m *Map) RemoveControl(c radar.Control) error {
	m.mu.Lock()
	idx := -1
	for i, mc := range m.controls {
		if mc.control == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return ErrUnknownControl
	}
	h := m.controls[idx].handle
	m.controls = append(m.controls[:idx], m.controls[idx+1:]...)
	m.mu.Unlock()

	if !mounted(h) {
		return nil
	}
	return c.Detach()
}

// RemoveLayer drops a layer from the stack.
func (m *Map) RemoveLayer(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.layerIndex(key)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, key)
	}
	m.layers = append(m.layers[:idx], m.layers[idx+1:]...)
	return nil
}

// RemoveSource drops a source. It fails while a layer still reads from it.
func (m *Map) RemoveSource(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSource, key)
	}
	for _, l := range m.layers {
		if l.Source == key {
			return fmt.Errorf("source %q is used by layer %q", key, l.ID)
		}
	}
	delete(m.sources, key)
	return nil
}

func (m *Map) SetLayoutProperty(layerKey, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.layerIndex(layerKey)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layerKey)
	}
	if m.layers[idx].Layout == nil {
		m.layers[idx].Layout = make(map[string]any)
	}
	m.layers[idx].Layout[name] = value
	return nil
}

// LayoutProperty returns a layout value previously set on layerKey.
func (m *Map) LayoutProperty(layerKey, name string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.layerIndex(layerKey)
	if idx < 0 {
		return nil, false
	}
	v, ok := m.layers[idx].Layout[name]
	return v, ok
}

// Source returns a registered source.
func (m *Map) Source(key string) (radar.SourceDescriptor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[key]
	return s, ok
}

// LayerIDs returns layer ids bottom to top.
func (m *Map) LayerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.layers))
	for _, l := range m.layers {
		ids = append(ids, l.ID)
	}
	return ids
}

// ControlCount returns the number of mounted controls.
func (m *Map) ControlCount() int {
	n := 0
	for _, h := range m.handles() {
		if mounted(h) {
			n++
		}
	}
	return n
}

// Style renders the current map state.
func (m *Map) Style() Style {
	m.mu.Lock()
	st := Style{
		Version: StyleVersion,
		Sources: make(map[string]radar.SourceDescriptor, len(m.sources)),
		Layers:  make([]radar.LayerDescriptor, 0, len(m.layers)),
	}
	for k, v := range m.sources {
		st.Sources[k] = v
	}
	for _, l := range m.layers {
		if l.Layout != nil {
			layout := make(map[string]any, len(l.Layout))
			for k, v := range l.Layout {
				layout[k] = v
			}
			l.Layout = layout
		}
		st.Layers = append(st.Layers, l)
	}
	m.mu.Unlock()

	// Button state is guarded by the control itself, so it is read after the map lock is released.
	for _, h := range m.handles() {
		if !mounted(h) {
			continue
		}
		btn := h.Container.Button
		st.Controls = append(st.Controls, ControlInfo{
			ID:        h.ID,
			ClassName: h.Container.ClassName,
			Label:     btn.Label(),
			Opacity:   btn.Emphasis().Opacity(),
		})
	}
	return st
}

func (m *Map) handles() []*radar.ControlHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	hs := make([]*radar.ControlHandle, 0, len(m.controls))
	for _, mc := range m.controls {
		hs = append(hs, mc.handle)
	}
	return hs
}

// mounted must not be called with m.mu held; the container lock belongs to the control.
func mounted(h *radar.ControlHandle) bool {
	return h != nil && h.Container != nil && h.Container.Mounted()
}

func (m *Map) layerIndex(id string) int {
	for i, l := range m.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}
