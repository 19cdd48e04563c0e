package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type record struct {
	version  uint32
	alive    bool
	name     string
	parent   EntityID
	children []EntityID
	local    mgl32.Mat4
	world    mgl32.Mat4
}

// World owns every entity, the parent/child forest, the component tables
// and the active camera/light singletons. It is not safe for concurrent use;
// systems run one after another on the frame goroutine.
type World struct {
	records []record
	free    []uint32
	order   []EntityID // creation order of live entities

	Cameras     Table[Camera]
	Lights      Table[Light]
	Renderables Table[Renderable]

	// OnDestroyed fires once per entity removed by Destroy, descendants
	// before their ancestors.
	OnDestroyed Event[EntityID]

	camera ActiveCamera
	light  ActiveLight

	frame           uint64
	dirty           bool
	propagatedFrame uint64
}

func NewWorld() *World {
	w := &World{
		frame:  1,
		camera: defaultActiveCamera(),
		light:  defaultActiveLight(),
	}
	w.Renderables.OnRemove(func(_ EntityID, r Renderable) {
		r.Mesh.Release()
	})
	return w
}

// BeginFrame starts a new logical frame. World transforms and singletons
// from the previous frame become stale until the systems run again.
func (w *World) BeginFrame() {
	w.frame++
}

func (w *World) Frame() uint64 {
	return w.frame
}

func (w *World) Len() int {
	return len(w.order)
}

func (w *World) Alive(e EntityID) bool {
	if e.IsNil() || int(e.Index) >= len(w.records) {
		return false
	}
	r := &w.records[e.Index]
	return r.alive && r.version == e.Version
}

func (w *World) rec(e EntityID) (*record, error) {
	if !w.Alive(e) {
		return nil, fmt.Errorf("%v: %w", e, ErrNoEntity)
	}
	return &w.records[e.Index], nil
}

// CreateEntity allocates an entity with the given local transform and an
// identity world transform. parent may be NilEntity.
func (w *World) CreateEntity(name string, local mgl32.Mat4, parent EntityID) (EntityID, error) {
	if !parent.IsNil() && !w.Alive(parent) {
		return NilEntity, fmt.Errorf("create %q: parent %v: %w", name, parent, ErrNoEntity)
	}

	var e EntityID
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		e = EntityID{Index: idx, Version: w.records[idx].version}
	} else {
		if len(w.records) == int(^uint32(0)) {
			panic("engine: entity arena exhausted")
		}
		w.records = append(w.records, record{version: 1})
		e = EntityID{Index: uint32(len(w.records) - 1), Version: 1}
	}

	r := &w.records[e.Index]
	r.alive = true
	r.name = name
	r.parent = NilEntity
	r.children = nil
	r.local = local
	r.world = mgl32.Ident4()

	w.order = append(w.order, e)
	if !parent.IsNil() {
		w.link(e, parent)
	}
	w.dirty = true
	return e, nil
}

// CreateEntityTRS is CreateEntity with the local transform composed from
// position, rotation and scale.
func (w *World) CreateEntityTRS(name string, t Transform, parent EntityID) (EntityID, error) {
	return w.CreateEntity(name, t.Matrix(), parent)
}

// SetParent moves child under parent. A nil parent makes child a root. The
// hierarchy is unchanged when an error is returned.
func (w *World) SetParent(child, parent EntityID) error {
	c, err := w.rec(child)
	if err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if parent.IsNil() {
		w.unlink(child)
		w.dirty = true
		return nil
	}
	if _, err := w.rec(parent); err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if w.isAncestorOrSelf(child, parent) {
		return fmt.Errorf("set parent of %q to %q: %w", c.name, w.records[parent.Index].name, ErrCycle)
	}
	if c.parent == parent {
		return nil
	}
	w.unlink(child)
	w.link(child, parent)
	w.dirty = true
	return nil
}

// isAncestorOrSelf reports whether a appears on the parent chain of b
// (b included).
func (w *World) isAncestorOrSelf(a, b EntityID) bool {
	for cur := b; w.Alive(cur); cur = w.records[cur.Index].parent {
		if cur == a {
			return true
		}
	}
	return false
}

func (w *World) link(child, parent EntityID) {
	w.records[child.Index].parent = parent
	p := &w.records[parent.Index]
	p.children = append(p.children, child)
}

func (w *World) unlink(child EntityID) {
	c := &w.records[child.Index]
	if !w.Alive(c.parent) {
		c.parent = NilEntity
		return
	}
	p := &w.records[c.parent.Index]
	for i, id := range p.children {
		if id == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	c.parent = NilEntity
}

// Destroy removes e and all of its descendants, tearing down their
// components.
func (w *World) Destroy(e EntityID) error {
	if _, err := w.rec(e); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	w.unlink(e)

	var doomed []EntityID
	var collect func(id EntityID)
	collect = func(id EntityID) {
		for _, c := range w.records[id.Index].children {
			collect(c)
		}
		doomed = append(doomed, id)
	}
	collect(e)

	gone := make(map[EntityID]struct{}, len(doomed))
	for _, id := range doomed {
		w.Cameras.Remove(id)
		w.Lights.Remove(id)
		w.Renderables.Remove(id)

		r := &w.records[id.Index]
		r.alive = false
		r.children = nil
		r.parent = NilEntity
		r.version++
		if r.version == 0 {
			r.version = 1
		}
		w.free = append(w.free, id.Index)
		gone[id] = struct{}{}
	}

	kept := w.order[:0]
	for _, id := range w.order {
		if _, ok := gone[id]; !ok {
			kept = append(kept, id)
		}
	}
	w.order = kept
	w.dirty = true

	for _, id := range doomed {
		w.OnDestroyed.Invoke(id)
	}
	return nil
}

// Close destroys every remaining entity, releasing owned GPU resources.
func (w *World) Close() {
	for _, root := range w.Roots() {
		_ = w.Destroy(root)
	}
}

func (w *World) Name(e EntityID) string {
	if !w.Alive(e) {
		return ""
	}
	return w.records[e.Index].name
}

func (w *World) FindByName(name string) (EntityID, bool) {
	for _, e := range w.order {
		if w.records[e.Index].name == name {
			return e, true
		}
	}
	return NilEntity, false
}

// Parent returns the parent of e, or NilEntity for roots and dead ids.
func (w *World) Parent(e EntityID) EntityID {
	if !w.Alive(e) {
		return NilEntity
	}
	return w.records[e.Index].parent
}

func (w *World) Children(e EntityID) []EntityID {
	if !w.Alive(e) {
		return nil
	}
	return append([]EntityID(nil), w.records[e.Index].children...)
}

// Roots lists entities without a live parent in creation order.
func (w *World) Roots() []EntityID {
	var roots []EntityID
	for _, e := range w.order {
		if !w.Alive(w.records[e.Index].parent) {
			roots = append(roots, e)
		}
	}
	return roots
}

// Entities lists live entities in creation order.
func (w *World) Entities() []EntityID {
	return append([]EntityID(nil), w.order...)
}

// Depth is 0 for roots.
func (w *World) Depth(e EntityID) int {
	d := 0
	for cur := w.Parent(e); w.Alive(cur); cur = w.records[cur.Index].parent {
		d++
	}
	return d
}

func (w *World) Local(e EntityID) (mgl32.Mat4, bool) {
	if !w.Alive(e) {
		return mgl32.Mat4{}, false
	}
	return w.records[e.Index].local, true
}

func (w *World) SetLocal(e EntityID, local mgl32.Mat4) error {
	r, err := w.rec(e)
	if err != nil {
		return fmt.Errorf("set local: %w", err)
	}
	r.local = local
	w.dirty = true
	return nil
}

// WorldTransform returns the last propagated world transform of e.
func (w *World) WorldTransform(e EntityID) (mgl32.Mat4, bool) {
	if !w.Alive(e) {
		return mgl32.Mat4{}, false
	}
	return w.records[e.Index].world, true
}
