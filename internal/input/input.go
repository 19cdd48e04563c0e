package input

import "github.com/go-gl/mathgl/mgl32"

// State is one frame of player input.
type State struct {
	// MouseDelta is the pointer movement since the last poll, in pixels.
	MouseDelta mgl32.Vec2
	// Axis is the movement request: X strafes right, Y moves forward.
	Axis mgl32.Vec2
	Quit bool
}

// Source is anything that can be polled once per frame for input.
type Source interface {
	Poll() State
}

// ClampAxis limits each component to [-1, 1] and normalizes diagonals so
// they are not faster than straight movement.
func ClampAxis(a mgl32.Vec2) mgl32.Vec2 {
	a = mgl32.Vec2{mgl32.Clamp(a.X(), -1, 1), mgl32.Clamp(a.Y(), -1, 1)}
	if l := a.Len(); l > 1 {
		a = a.Mul(1 / l)
	}
	return a
}

// Keys is a snapshot of the movement keys.
type Keys struct {
	Forward, Back, Left, Right bool
}

// Axis converts held keys into a clamped movement axis.
func (k Keys) Axis() mgl32.Vec2 {
	var a mgl32.Vec2
	if k.Forward {
		a[1]++
	}
	if k.Back {
		a[1]--
	}
	if k.Right {
		a[0]++
	}
	if k.Left {
		a[0]--
	}
	return ClampAxis(a)
}

// Replay feeds a fixed sequence of states, then reports Quit.
type Replay struct {
	States []State
	next   int
}

func (r *Replay) Poll() State {
	if r.next >= len(r.States) {
		return State{Quit: true}
	}
	s := r.States[r.next]
	r.next++
	return s
}
