package radar

import (
	"context"
	"reflect"
)

// FeedProvider abstracts the upstream that publishes the snapshot list.
type FeedProvider interface {
	Name() string
	FetchTargetTimes(ctx context.Context) (Feed, error)
}

// MapHandle is the subset of a host map engine the overlay depends on.
type MapHandle interface {
	AddSource(key string, source SourceDescriptor) error
	// AddLayer inserts the layer before beforeLayer, or on top when beforeLayer is empty.
	AddLayer(layer LayerDescriptor, beforeLayer string) error
	// AddControl mounts the control; the map calls Control.Attach with itself.
	AddControl(c Control) error
	// RemoveControl unmounts the control; the map calls Control.Detach.
	RemoveControl(c Control) error
	SetLayoutProperty(layerKey, name string, value any) error
}

// StyleRemover is implemented by maps that can unregister layers and sources.
// Overlay.Set uses it to undo a partial registration.
type StyleRemover interface {
	RemoveLayer(key string) error
	RemoveSource(key string) error
}

// Control is anything a MapHandle can mount.
type Control interface {
	Attach(m MapHandle) (*ControlHandle, error)
	Detach() error
}

// isNilHandle reports whether m is nil or an interface wrapping a nil pointer.
func isNilHandle(m MapHandle) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
