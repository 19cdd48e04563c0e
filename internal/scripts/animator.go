package scripts

import (
	"math"
	"scene3d/internal/engine"

	"github.com/go-gl/mathgl/mgl32"
)

// Animator moves an entity on a horizontal circle around its authored
// position with a vertical bob, while turning it around Y.
type Animator struct {
	Entity         engine.EntityID
	Base           engine.Transform
	RotationSpeed  float32 // degrees per second
	MovementRadius float32
	MovementSpeed  float32 // radians per second
	BobHeight      float32
	Phase          float32

	time     float32
	rotation float32
}

func init() {
	Register("Animator", animatorFactory)
}

func animatorFactory(e engine.EntityID, base engine.Transform, props map[string]any) Script {
	return &Animator{
		Entity:         e,
		Base:           base,
		RotationSpeed:  floatProp(props, "rotationSpeed", 45),
		MovementRadius: floatProp(props, "movementRadius", 0),
		MovementSpeed:  floatProp(props, "movementSpeed", 1),
		BobHeight:      floatProp(props, "bobHeight", 1.5),
		Phase:          floatProp(props, "phase", 0),
	}
}

func (a *Animator) Update(w *engine.World, dt float32) error {
	a.time += dt

	t := float64(a.time*a.MovementSpeed + a.Phase)
	offset := mgl32.Vec3{
		float32(math.Cos(t)) * a.MovementRadius,
		float32(math.Sin(t*2)) * a.BobHeight,
		float32(math.Sin(t)) * a.MovementRadius,
	}

	a.rotation += a.RotationSpeed * dt
	if a.rotation > 360 {
		a.rotation -= 360
	}

	tr := a.Base
	tr.Position = a.Base.Position.Add(offset)
	tr.Rotation[1] += a.rotation
	return w.SetLocal(a.Entity, tr.Matrix())
}
