package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func checkInvariant(t *testing.T, w *World) {
	t.Helper()
	for _, e := range w.Entities() {
		local, _ := w.Local(e)
		world, _ := w.WorldTransform(e)
		want := local
		if p := w.Parent(e); !p.IsNil() {
			parentWorld, _ := w.WorldTransform(p)
			want = parentWorld.Mul4(local)
		}
		if !world.ApproxEqualThreshold(want, eps) {
			t.Errorf("%s: world %v, expected %v", w.Name(e), world, want)
		}
	}
}

func TestPropagateEndToEnd(t *testing.T) {
	w := NewWorld()
	a, _ := w.CreateEntityTRS("A", Translation(1, 0, 0), NilEntity)
	b, _ := w.CreateEntityTRS("B", Translation(0, 2, 0), a)

	PropagateTransforms(w)

	world, _ := w.WorldTransform(b)
	got := TranslationOf(world)
	if !got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 0}, eps) {
		t.Errorf("Expected B at (1,2,0), got %v", got)
	}
}

func TestPropagateInvariantDeepHierarchy(t *testing.T) {
	w := NewWorld()

	// Created out of hierarchy order on purpose: the grandchild exists
	// before its final parent chain is assembled.
	leaf, _ := w.CreateEntityTRS("Leaf", Transform{
		Position: mgl32.Vec3{0, 0, 1},
		Rotation: mgl32.Vec3{10, 20, 30},
		Scale:    mgl32.Vec3{1, 1, 1},
	}, NilEntity)
	root, _ := w.CreateEntityTRS("Root", Transform{
		Position: mgl32.Vec3{5, 0, -3},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}, NilEntity)
	mid, _ := w.CreateEntityTRS("Mid", Transform{
		Position: mgl32.Vec3{1, 1, 0},
		Rotation: mgl32.Vec3{45, 0, 0},
		Scale:    mgl32.Vec3{1, 0.5, 1},
	}, root)
	deeper, _ := w.CreateEntityTRS("Deeper", Translation(0, 3, 0), mid)
	if err := w.SetParent(leaf, deeper); err != nil {
		t.Fatal(err)
	}
	w.CreateEntityTRS("Loner", Translation(-1, -1, -1), NilEntity)

	if w.Depth(leaf) != 3 {
		t.Fatalf("Expected leaf depth 3, got %d", w.Depth(leaf))
	}

	PropagateTransforms(w)
	checkInvariant(t, w)
}

func TestPropagateIdempotent(t *testing.T) {
	w := NewWorld()
	a, _ := w.CreateEntityTRS("A", Transform{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.Vec3{0, 30, 0}, Scale: mgl32.Vec3{1, 1, 1}}, NilEntity)
	b, _ := w.CreateEntityTRS("B", Translation(0, 1, 0), a)
	c, _ := w.CreateEntityTRS("C", Translation(2, 0, 0), b)

	PropagateTransforms(w)
	first := map[EntityID]mgl32.Mat4{}
	for _, e := range []EntityID{a, b, c} {
		first[e], _ = w.WorldTransform(e)
	}

	PropagateTransforms(w)
	for _, e := range []EntityID{a, b, c} {
		got, _ := w.WorldTransform(e)
		if got != first[e] {
			t.Errorf("%s changed on second propagation: %v vs %v", w.Name(e), got, first[e])
		}
	}
}

func TestPropagateUsesPostReparentParent(t *testing.T) {
	w := NewWorld()
	a, _ := w.CreateEntityTRS("A", Translation(10, 0, 0), NilEntity)
	b, _ := w.CreateEntityTRS("B", Translation(0, 0, 10), NilEntity)
	c, _ := w.CreateEntityTRS("C", Translation(0, 1, 0), a)

	PropagateTransforms(w)
	w.BeginFrame()
	if err := w.SetParent(c, b); err != nil {
		t.Fatal(err)
	}
	PropagateTransforms(w)

	world, _ := w.WorldTransform(c)
	if got := TranslationOf(world); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 10}, eps) {
		t.Errorf("Expected C at (0,1,10), got %v", got)
	}
}

func TestExtractActiveCamera(t *testing.T) {
	w := NewWorld()
	rig, _ := w.CreateEntityTRS("Rig", Translation(0, 5, 0), NilEntity)
	camLocal := Transform{Position: mgl32.Vec3{1, 0, 2}, Rotation: mgl32.Vec3{0, 45, 0}, Scale: mgl32.Vec3{1, 1, 1}}
	cam, _ := w.CreateEntityTRS("Camera", camLocal, rig)
	proj := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)
	w.Cameras.Attach(cam, Camera{Projection: proj})

	PropagateTransforms(w)
	if err := ExtractActiveCamera(w); err != nil {
		t.Fatal(err)
	}

	ac := w.ActiveCamera()
	world, _ := w.WorldTransform(cam)
	if !ac.Position.ApproxEqualThreshold(mgl32.Vec3{1, 5, 2}, eps) {
		t.Errorf("Expected position (1,5,2), got %v", ac.Position)
	}
	if !ac.View.Mul4(world).ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Error("View should be the inverse of the camera world transform")
	}
	if ac.Projection != proj {
		t.Error("Projection should be copied from the Camera component")
	}
	if ac.Entity != cam || ac.Frame != w.Frame() {
		t.Errorf("Unexpected entity/frame stamp: %v/%d", ac.Entity, ac.Frame)
	}
}

func TestExtractActiveCameraPolicy(t *testing.T) {
	w := NewWorld()
	PropagateTransforms(w)
	if err := ExtractActiveCamera(w); !errors.Is(err, ErrNoActiveCamera) {
		t.Errorf("Expected ErrNoActiveCamera, got %v", err)
	}

	a, _ := w.CreateEntity("A", mgl32.Ident4(), NilEntity)
	b, _ := w.CreateEntity("B", mgl32.Ident4(), NilEntity)
	w.Cameras.Attach(a, Camera{Projection: mgl32.Ident4()})
	w.Cameras.Attach(b, Camera{Projection: mgl32.Ident4()})
	PropagateTransforms(w)

	before := w.ActiveCamera()
	if err := ExtractActiveCamera(w); !errors.Is(err, ErrMultipleCameras) {
		t.Errorf("Expected ErrMultipleCameras, got %v", err)
	}
	if w.ActiveCamera() != before {
		t.Error("Singleton must not change when extraction fails")
	}
}

func TestExtractRequiresFreshPropagation(t *testing.T) {
	w := NewWorld()
	cam, _ := w.CreateEntity("Camera", mgl32.Ident4(), NilEntity)
	w.Cameras.Attach(cam, Camera{Projection: mgl32.Ident4()})

	if err := ExtractActiveCamera(w); !errors.Is(err, ErrStaleTransforms) {
		t.Errorf("Expected ErrStaleTransforms before propagation, got %v", err)
	}

	PropagateTransforms(w)
	if err := ExtractActiveCamera(w); err != nil {
		t.Fatal(err)
	}

	w.BeginFrame()
	if err := ExtractActiveCamera(w); !errors.Is(err, ErrStaleTransforms) {
		t.Errorf("Expected ErrStaleTransforms on a new frame, got %v", err)
	}

	PropagateTransforms(w)
	if err := w.SetLocal(cam, mgl32.Translate3D(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := ExtractActiveCamera(w); !errors.Is(err, ErrStaleTransforms) {
		t.Errorf("Expected ErrStaleTransforms after a local mutation, got %v", err)
	}
}

func TestExtractActiveLight(t *testing.T) {
	w := NewWorld()
	PropagateTransforms(w)
	if err := ExtractActiveLight(w); err != nil {
		t.Fatal(err)
	}
	def := w.ActiveLight()
	if def.Position != (mgl32.Vec3{1, 1, 1}) || def.Color != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected default light, got %+v", def)
	}

	lamp, _ := w.CreateEntityTRS("Lamp", Translation(4, 4, 2), NilEntity)
	w.Lights.Attach(lamp, Light{Color: mgl32.Vec3{1, 0.5, 0}, Intensity: 2})
	PropagateTransforms(w)
	if err := ExtractActiveLight(w); err != nil {
		t.Fatal(err)
	}
	l := w.ActiveLight()
	if !l.Position.ApproxEqualThreshold(mgl32.Vec3{4, 4, 2}, eps) || l.Intensity != 2 {
		t.Errorf("Unexpected light %+v", l)
	}

	other, _ := w.CreateEntity("Lamp2", mgl32.Ident4(), NilEntity)
	w.Lights.Attach(other, Light{})
	PropagateTransforms(w)
	if err := ExtractActiveLight(w); !errors.Is(err, ErrMultipleLights) {
		t.Errorf("Expected ErrMultipleLights, got %v", err)
	}
}

func TestRenderListOrdering(t *testing.T) {
	w := NewWorld()
	cam, _ := w.CreateEntity("Camera", mgl32.Ident4(), NilEntity)
	w.Cameras.Attach(cam, Camera{Projection: mgl32.Ident4()})
	cube, _ := w.CreateEntityTRS("Cube", Translation(0, 1, 0), NilEntity)
	w.Renderables.Attach(cube, Renderable{Color: DefaultColor})

	PropagateTransforms(w)
	if _, err := RenderList(w); !errors.Is(err, ErrStaleCamera) {
		t.Errorf("Expected ErrStaleCamera before extraction, got %v", err)
	}

	if err := ExtractActiveCamera(w); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderList(w); !errors.Is(err, ErrStaleLight) {
		t.Errorf("Expected ErrStaleLight before light extraction, got %v", err)
	}
	if err := ExtractActiveLight(w); err != nil {
		t.Fatal(err)
	}

	frame, err := RenderList(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Items) != 1 || frame.Items[0].Entity != cube {
		t.Fatalf("Expected one item for the cube, got %+v", frame.Items)
	}
	if got := TranslationOf(frame.Items[0].World); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("Expected cube at (0,1,0), got %v", got)
	}

	w.BeginFrame()
	PropagateTransforms(w)
	if _, err := RenderList(w); !errors.Is(err, ErrStaleCamera) {
		t.Errorf("Expected ErrStaleCamera for last frame's singleton, got %v", err)
	}
}
