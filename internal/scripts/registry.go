package scripts

import (
	"errors"
	"fmt"
	"scene3d/internal/engine"
	"sort"
)

var ErrUnknownScript = errors.New("unknown script")

// Script is per-entity behaviour run once per frame before transform
// propagation. Scripts only write local transforms.
type Script interface {
	Update(w *engine.World, dt float32) error
}

// Factory builds a script for entity e whose authored transform is base.
type Factory func(e engine.EntityID, base engine.Transform, props map[string]any) Script

var registry = map[string]Factory{}

// Register makes a script available to scene files under name.
func Register(name string, factory Factory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	registry[name] = factory
}

// Create looks up a registered script by name and creates it with props.
func Create(name string, e engine.EntityID, base engine.Transform, props map[string]any) (Script, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	return factory(e, base, props), nil
}

// Registered returns the sorted names of all registered scripts.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func floatProp(props map[string]any, key string, fallback float32) float32 {
	if v, ok := props[key].(float64); ok {
		return float32(v)
	}
	return fallback
}
