package engine

import (
	"scene3d/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureHandle and ShaderHandle are opaque ids issued by the graphics
// backend. Zero means "none".
type (
	TextureHandle uint32
	ShaderHandle  uint32
)

// Camera carries the authored projection; the view is derived from the
// entity's world transform.
type Camera struct {
	Projection mgl32.Mat4
}

func NewPerspectiveCamera(fovDeg, aspect, near, far float32) Camera {
	return Camera{Projection: mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)}
}

type Light struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Renderable marks an entity for drawing. When Mesh is an owning ref the
// entity owns the GPU buffer and destroying it releases the buffer.
type Renderable struct {
	Mesh    *mesh.Ref
	Texture TextureHandle
	Shader  ShaderHandle
	Color   mgl32.Vec3 // used when Texture is zero
}

// DefaultColor is the orange used for untextured meshes.
var DefaultColor = mgl32.Vec3{0.8, 0.5, 0.2}
