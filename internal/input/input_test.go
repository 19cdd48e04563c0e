package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClampAxis(t *testing.T) {
	tests := []struct {
		in, want mgl32.Vec2
	}{
		{mgl32.Vec2{0, 0}, mgl32.Vec2{0, 0}},
		{mgl32.Vec2{0, 1}, mgl32.Vec2{0, 1}},
		{mgl32.Vec2{0, 5}, mgl32.Vec2{0, 1}},
		{mgl32.Vec2{-3, 0}, mgl32.Vec2{-1, 0}},
		{mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{0.5, 0.5}},
	}
	for _, tt := range tests {
		if got := ClampAxis(tt.in); !got.ApproxEqualThreshold(tt.want, 1e-6) {
			t.Errorf("ClampAxis(%v) = %v, expected %v", tt.in, got, tt.want)
		}
	}

	d := ClampAxis(mgl32.Vec2{1, 1})
	if l := d.Len(); l < 0.9999 || l > 1.0001 {
		t.Errorf("Diagonal should have unit length, got %v", l)
	}
}

func TestKeysAxis(t *testing.T) {
	if got := (Keys{Forward: true, Back: true}).Axis(); got != (mgl32.Vec2{}) {
		t.Errorf("Opposing keys should cancel, got %v", got)
	}
	if got := (Keys{Forward: true}).Axis(); got != (mgl32.Vec2{0, 1}) {
		t.Errorf("Expected forward (0,1), got %v", got)
	}
	if got := (Keys{Left: true}).Axis(); got != (mgl32.Vec2{-1, 0}) {
		t.Errorf("Expected left (-1,0), got %v", got)
	}
}

func TestReplay(t *testing.T) {
	r := &Replay{States: []State{
		{Axis: mgl32.Vec2{0, 1}},
		{MouseDelta: mgl32.Vec2{3, 0}},
	}}

	if s := r.Poll(); s.Axis.Y() != 1 || s.Quit {
		t.Errorf("Unexpected first state %+v", s)
	}
	if s := r.Poll(); s.MouseDelta.X() != 3 {
		t.Errorf("Unexpected second state %+v", s)
	}
	if s := r.Poll(); !s.Quit {
		t.Error("Replay should quit once exhausted")
	}
}
