package camera

import (
	"math"
	"scene3d/internal/input"

	"github.com/go-gl/mathgl/mgl32"
)

// Ground reports the surface height under a horizontal position.
type Ground interface {
	HeightAt(x, z float32) float32
}

// FPSController turns mouse look and movement input into the local
// transform of the player camera entity. The player always stands on the
// ground; there is no gravity or jumping.
type FPSController struct {
	Position  mgl32.Vec3
	Yaw       float32 // degrees, 0 looks down +X
	Pitch     float32 // degrees, clamped to [-89, 89]
	MoveSpeed float32 // units per second
	LookSpeed float32 // degrees per pixel of mouse movement
	EyeHeight float32 // height of camera above the ground
}

func New(pos mgl32.Vec3) *FPSController {
	return &FPSController{
		Position:  pos,
		Yaw:       -135.0,
		Pitch:     -30.0,
		MoveSpeed: 8.0,
		LookSpeed: 0.1,
		EyeHeight: 5.0,
	}
}

// Update applies one frame of input and returns the camera's new local
// transform. ground may be nil, in which case the height is left alone.
func (c *FPSController) Update(in input.State, dt float32, ground Ground) mgl32.Mat4 {
	// Mouse look
	c.Yaw += in.MouseDelta.X() * c.LookSpeed
	c.Pitch -= in.MouseDelta.Y() * c.LookSpeed
	c.Pitch = mgl32.Clamp(c.Pitch, -89, 89)

	forward, right, up := c.Basis()

	move := forward.Mul(in.Axis.Y()).Add(right.Mul(in.Axis.X()))
	c.Position = c.Position.Add(move.Mul(c.MoveSpeed * dt))

	if ground != nil {
		c.Position[1] = ground.HeightAt(c.Position.X(), c.Position.Z()) + c.EyeHeight
	}

	return c.lookAt(forward, up)
}

// Transform returns the local transform for the current pose without
// applying any input.
func (c *FPSController) Transform() mgl32.Mat4 {
	forward, _, up := c.Basis()
	return c.lookAt(forward, up)
}

func (c *FPSController) lookAt(forward, up mgl32.Vec3) mgl32.Mat4 {
	view := mgl32.LookAtV(c.Position, c.Position.Add(forward), up)
	return view.Inv()
}

// Forward is the unit viewing direction for the current yaw and pitch.
func (c *FPSController) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
}

// Basis returns the orthonormal forward, right and up vectors with +Y as
// world up.
func (c *FPSController) Basis() (forward, right, up mgl32.Vec3) {
	forward = c.Forward()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}
