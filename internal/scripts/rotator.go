package scripts

import "scene3d/internal/engine"

// Rotator spins an entity around its local Y axis.
type Rotator struct {
	Entity engine.EntityID
	Base   engine.Transform
	Speed  float32 // degrees per second

	angle float32
}

func init() {
	Register("Rotator", rotatorFactory)
}

func rotatorFactory(e engine.EntityID, base engine.Transform, props map[string]any) Script {
	return &Rotator{Entity: e, Base: base, Speed: floatProp(props, "speed", 90)}
}

func (r *Rotator) Update(w *engine.World, dt float32) error {
	r.angle += r.Speed * dt
	if r.angle > 360 {
		r.angle -= 360
	}
	if r.angle < -360 {
		r.angle += 360
	}

	t := r.Base
	t.Rotation[1] += r.angle
	return w.SetLocal(r.Entity, t.Matrix())
}
