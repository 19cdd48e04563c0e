package scenefile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"scene3d/internal/engine"
	"scene3d/internal/mesh"
	"scene3d/internal/scripts"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeAssets struct {
	terrain  *mesh.Ref
	textures map[string]engine.TextureHandle
	refs     []*mesh.Ref
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		terrain:  mesh.New(&mesh.Mesh{}),
		textures: map[string]engine.TextureHandle{"crate.png": 7},
	}
}

func (a *fakeAssets) Mesh(kind string) (*mesh.Ref, error) {
	var r *mesh.Ref
	switch kind {
	case "cube":
		r = mesh.New(mesh.Cube())
	case "terrain":
		r = a.terrain.Share()
	default:
		return nil, errors.New("no such mesh")
	}
	a.refs = append(a.refs, r)
	return r, nil
}

func (a *fakeAssets) Texture(path string) (engine.TextureHandle, error) {
	h, ok := a.textures[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return h, nil
}

func (a *fakeAssets) Shader() engine.ShaderHandle {
	return 3
}

func (a *fakeAssets) Projection(fov, near, far float32) mgl32.Mat4 {
	if fov == 0 {
		fov = 45
	}
	if near == 0 {
		near = 0.1
	}
	if far == 0 {
		far = 100
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), 16.0/9.0, near, far)
}

func TestParse(t *testing.T) {
	sf, err := Parse([]byte(`{"objects": [
		{"name": "A", "position": [1, 2, 3], "components": [{"type": "MeshRenderer", "mesh": "cube", "color": "Red"}]},
		{"name": "B", "parent": "A"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(sf.Objects))
	}
	if sf.Objects[0].Position != [3]float32{1, 2, 3} || sf.Objects[1].Parent != "A" {
		t.Errorf("Unexpected objects %+v", sf.Objects)
	}

	if _, err := Parse([]byte(`{"objects": [`)); err == nil {
		t.Error("Expected error for truncated JSON")
	}
}

func TestLookupColor(t *testing.T) {
	tests := []struct {
		name string
		want [3]float32
	}{
		{"", [3]float32{0.8, 0.5, 0.2}},
		{"White", [3]float32{1, 1, 1}},
		{"#ff0000", [3]float32{1, 0, 0}},
		{"#000000", [3]float32{0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := LookupColor(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("LookupColor(%q) = %v, %v; expected %v", tt.name, got, err, tt.want)
		}
	}

	for _, bad := range []string{"Chartreuse", "#12345", "#zzzzzz"} {
		if _, err := LookupColor(bad); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("LookupColor(%q): expected ErrUnknownColor, got %v", bad, err)
		}
	}
}

func TestBuildDefaultScene(t *testing.T) {
	w := engine.NewWorld()
	assets := newFakeAssets()

	b, err := Build(w, Default(), assets)
	if err != nil {
		t.Fatal(err)
	}

	if w.Len() != 5 {
		t.Errorf("Expected 5 entities, got %d", w.Len())
	}
	if b.Player != b.Entities["Player"] {
		t.Error("Player marker not resolved")
	}
	if !w.Cameras.Has(b.Player) || w.Cameras.Len() != 1 {
		t.Error("Expected exactly one camera on the player")
	}
	if w.Lights.Len() != 1 {
		t.Errorf("Expected one light, got %d", w.Lights.Len())
	}
	if w.Parent(b.Entities["Cube"]) != b.Entities["Pivot"] || w.Parent(b.Entities["Pivot"]) != b.Entities["Terrain"] {
		t.Error("Hierarchy not built from parent names")
	}
	if len(b.Scripts) != 2 {
		t.Errorf("Expected 2 scripts, got %d", len(b.Scripts))
	}
	if _, ok := b.Scripts[0].(*scripts.Rotator); !ok {
		t.Errorf("Expected first script to be a Rotator, got %T", b.Scripts[0])
	}

	terrain, _ := w.Renderables.Get(b.Entities["Terrain"])
	if terrain.Mesh.Owned() {
		t.Error("Terrain entity should hold a shared mesh reference")
	}
	cube, _ := w.Renderables.Get(b.Entities["Cube"])
	if !cube.Mesh.Owned() || cube.Color != engine.DefaultColor || cube.Shader != 3 {
		t.Errorf("Unexpected cube renderable %+v", cube)
	}

	// The player's authored scale is zero in the file and defaults to 1.
	checkUnitScale(t, w, b.Player)
}

func checkUnitScale(t *testing.T, w *engine.World, e engine.EntityID) {
	t.Helper()
	engine.PropagateTransforms(w)
	world, _ := w.WorldTransform(e)
	x := world.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	if l := x.Len(); l < 0.9999 || l > 1.0001 {
		t.Errorf("Expected unit scale, got %v", l)
	}
}

func TestBuildForwardParentReference(t *testing.T) {
	sf := &SceneFile{Objects: []ObjectDef{
		{Name: "Child", Parent: "Root", Position: [3]float32{0, 2, 0}},
		{Name: "Root", Position: [3]float32{1, 0, 0}},
	}}
	w := engine.NewWorld()
	b, err := Build(w, sf, newFakeAssets())
	if err != nil {
		t.Fatal(err)
	}

	engine.PropagateTransforms(w)
	world, _ := w.WorldTransform(b.Entities["Child"])
	if got := engine.TranslationOf(world); !got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 0}, 1e-5) {
		t.Errorf("Expected child at (1,2,0), got %v", got)
	}
}

func TestBuildFailuresLeaveWorldUnchanged(t *testing.T) {
	cube := Component(MeshRendererDef{Type: "MeshRenderer", Mesh: "cube"})

	tests := []struct {
		name    string
		objects []ObjectDef
		want    error
	}{
		{"unknown parent", []ObjectDef{{Name: "A", Parent: "Ghost"}}, ErrUnknownParent},
		{"duplicate", []ObjectDef{{Name: "A"}, {Name: "A"}}, ErrDuplicateName},
		{"cycle", []ObjectDef{{Name: "A", Parent: "B"}, {Name: "B", Parent: "A"}}, engine.ErrCycle},
		{"unknown component", []ObjectDef{{Name: "A", Components: []json.RawMessage{json.RawMessage(`{"type":"Teleporter"}`)}}}, ErrUnknownComponent},
		{"unknown script", []ObjectDef{{Name: "A", Components: []json.RawMessage{json.RawMessage(`{"type":"Script","name":"Nope"}`)}}}, scripts.ErrUnknownScript},
		{"bad color", []ObjectDef{{Name: "A", Components: []json.RawMessage{json.RawMessage(`{"type":"MeshRenderer","mesh":"cube","color":"Plaid"}`)}}}, ErrUnknownColor},
		{"missing texture", []ObjectDef{
			{Name: "A", Components: []json.RawMessage{cube}},
			{Name: "B", Components: []json.RawMessage{json.RawMessage(`{"type":"MeshRenderer","mesh":"cube","texture":"missing.png"}`)}},
		}, os.ErrNotExist},
		{"two players", []ObjectDef{
			{Name: "A", Components: []json.RawMessage{Component(PlayerDef{Type: "Player"})}},
			{Name: "B", Components: []json.RawMessage{Component(PlayerDef{Type: "Player"})}},
		}, ErrMultiplePlayers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := engine.NewWorld()
			keep, _ := w.CreateEntity("Existing", mgl32.Ident4(), engine.NilEntity)
			assets := newFakeAssets()

			_, err := Build(w, &SceneFile{Objects: tt.objects}, assets)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if w.Len() != 1 || !w.Alive(keep) {
				t.Errorf("Expected only the existing entity to remain, got %d", w.Len())
			}
			for _, r := range assets.refs {
				if r.Owned() && !r.Released() {
					t.Error("Owned mesh leaked after failed build")
				}
			}
		})
	}
}

func TestTextureAttached(t *testing.T) {
	sf := &SceneFile{Objects: []ObjectDef{{
		Name:       "Crate",
		Components: []json.RawMessage{Component(MeshRendererDef{Type: "MeshRenderer", Mesh: "cube", Texture: "crate.png"})},
	}}}
	w := engine.NewWorld()
	b, err := Build(w, sf, newFakeAssets())
	if err != nil {
		t.Fatal(err)
	}
	r, _ := w.Renderables.Get(b.Entities["Crate"])
	if r.Texture != 7 {
		t.Errorf("Expected texture handle 7, got %d", r.Texture)
	}
}

func TestSaveLoadAndShippedScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := Default().Save(path); err != nil {
		t.Fatal(err)
	}
	sf, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.Objects) != len(Default().Objects) {
		t.Errorf("Expected %d objects after reload, got %d", len(Default().Objects), len(sf.Objects))
	}

	shipped, err := Load("../../assets/scenes/default.json")
	if err != nil {
		t.Fatal(err)
	}
	assets := newFakeAssets()
	assets.textures["assets/textures/crate.png"] = 1
	if _, err := Build(engine.NewWorld(), shipped, assets); err != nil {
		t.Errorf("Shipped scene should build: %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}
