package engine

import (
	"fmt"
	"scene3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// PropagateTransforms resolves every world transform top-down: roots copy
// their local transform, children multiply their parent's world transform
// by their local one. Breadth-first order guarantees a parent is resolved
// before any of its children read it.
func PropagateTransforms(w *World) {
	queue := make([]EntityID, 0, len(w.order))
	for _, e := range w.order {
		r := &w.records[e.Index]
		if w.Alive(r.parent) {
			continue
		}
		r.world = r.local
		queue = append(queue, e)
	}

	for i := 0; i < len(queue); i++ {
		parent := &w.records[queue[i].Index]
		for _, c := range parent.children {
			child := &w.records[c.Index]
			child.world = parent.world.Mul4(child.local)
			queue = append(queue, c)
		}
	}

	w.propagatedFrame = w.frame
	w.dirty = false
}

func (w *World) checkPropagated() error {
	if w.dirty || w.propagatedFrame != w.frame {
		return ErrStaleTransforms
	}
	return nil
}

// ExtractActiveCamera copies the single camera entity's derived view state
// into the ActiveCamera singleton. Exactly one camera must exist.
func ExtractActiveCamera(w *World) error {
	if err := w.checkPropagated(); err != nil {
		return fmt.Errorf("extract camera: %w", err)
	}

	var (
		found EntityID
		cam   Camera
	)
	switch w.Cameras.Len() {
	case 0:
		return ErrNoActiveCamera
	case 1:
		found = w.Cameras.Entities()[0]
		cam, _ = w.Cameras.Get(found)
	default:
		return fmt.Errorf("%w: %d cameras", ErrMultipleCameras, w.Cameras.Len())
	}

	world := w.records[found.Index].world
	next := ActiveCamera{
		Entity:     found,
		Position:   TranslationOf(world),
		View:       world.Inv(),
		Projection: cam.Projection,
		Frame:      w.frame,
	}
	w.camera = next
	return nil
}

// ExtractActiveLight copies the light entity's position and colour into the
// ActiveLight singleton. With no light entity the defaults are kept.
func ExtractActiveLight(w *World) error {
	if err := w.checkPropagated(); err != nil {
		return fmt.Errorf("extract light: %w", err)
	}

	switch w.Lights.Len() {
	case 0:
		next := defaultActiveLight()
		next.Frame = w.frame
		w.light = next
		return nil
	case 1:
	default:
		return fmt.Errorf("%w: %d lights", ErrMultipleLights, w.Lights.Len())
	}

	e := w.Lights.Entities()[0]
	l, _ := w.Lights.Get(e)
	w.light = ActiveLight{
		Entity:    e,
		Position:  TranslationOf(w.records[e.Index].world),
		Color:     l.Color,
		Intensity: l.Intensity,
		Frame:     w.frame,
	}
	return nil
}

// DrawItem is what the graphics backend needs to draw one entity.
type DrawItem struct {
	Entity  EntityID
	World   mgl32.Mat4
	Mesh    *mesh.Ref
	Texture TextureHandle
	Shader  ShaderHandle
	Color   mgl32.Vec3
}

// RenderFrame is the complete, consistent input of one render pass.
type RenderFrame struct {
	Frame    uint64
	Entities int // live entities, drawn or not
	Items    []DrawItem
	Camera   ActiveCamera
	Light    ActiveLight
}

// RenderList collects every renderable in creation order. It refuses to
// build a frame from transforms or singletons that were not produced this
// frame.
func RenderList(w *World) (RenderFrame, error) {
	if err := w.checkPropagated(); err != nil {
		return RenderFrame{}, fmt.Errorf("render list: %w", err)
	}
	if w.camera.Frame != w.frame {
		return RenderFrame{}, fmt.Errorf("render list: %w", ErrStaleCamera)
	}
	if w.light.Frame != w.frame {
		return RenderFrame{}, fmt.Errorf("render list: %w", ErrStaleLight)
	}

	items := make([]DrawItem, 0, w.Renderables.Len())
	for _, e := range w.order {
		r, ok := w.Renderables.Get(e)
		if !ok {
			continue
		}
		items = append(items, DrawItem{
			Entity:  e,
			World:   w.records[e.Index].world,
			Mesh:    r.Mesh,
			Texture: r.Texture,
			Shader:  r.Shader,
			Color:   r.Color,
		})
	}
	return RenderFrame{
		Frame:    w.frame,
		Entities: len(w.order),
		Items:    items,
		Camera:   w.camera,
		Light:    w.light,
	}, nil
}
