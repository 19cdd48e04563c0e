package engine

import "github.com/go-gl/mathgl/mgl32"

// ActiveCamera is the per-frame camera state consumed by rendering. It is
// written only by ExtractActiveCamera and read by value.
type ActiveCamera struct {
	Entity     EntityID
	Position   mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Frame      uint64 // frame the values were extracted in; 0 = never
}

// Forward is the world-space viewing direction.
func (c ActiveCamera) Forward() mgl32.Vec3 {
	world := c.View.Inv()
	return world.Col(2).Vec3().Mul(-1)
}

// ActiveLight is the per-frame light state consumed by rendering.
type ActiveLight struct {
	Entity    EntityID
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Frame     uint64
}

func defaultActiveCamera() ActiveCamera {
	return ActiveCamera{
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
	}
}

func defaultActiveLight() ActiveLight {
	return ActiveLight{
		Position:  mgl32.Vec3{1, 1, 1},
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
	}
}

func (w *World) ActiveCamera() ActiveCamera {
	return w.camera
}

func (w *World) ActiveLight() ActiveLight {
	return w.light
}
