package engine

import (
	"errors"
	"fmt"
)

// EntityID is a generational handle into the world's entity arena. Index is
// the slot, Version is bumped every time the slot is freed so stale ids
// never resolve to a newer entity.
type EntityID struct {
	Index   uint32
	Version uint32
}

// NilEntity is the zero value; no live entity has Version 0.
var NilEntity EntityID

func (e EntityID) IsNil() bool {
	return e.Version == 0
}

func (e EntityID) String() string {
	if e.IsNil() {
		return "entity(nil)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.Index, e.Version)
}

var (
	ErrNoEntity        = errors.New("entity does not exist")
	ErrCycle           = errors.New("parent is a descendant of child")
	ErrNoActiveCamera  = errors.New("no camera entity")
	ErrMultipleCameras = errors.New("more than one camera entity")
	ErrMultipleLights  = errors.New("more than one light entity")
	ErrStaleTransforms = errors.New("world transforms not propagated this frame")
	ErrStaleCamera     = errors.New("active camera not extracted this frame")
	ErrStaleLight      = errors.New("active light not extracted this frame")
)
