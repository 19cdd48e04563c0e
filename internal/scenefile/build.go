package scenefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"scene3d/internal/engine"
	"scene3d/internal/mesh"
	"scene3d/internal/scripts"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrMultiplePlayers = errors.New("more than one player object")

// Assets resolves the resources a scene refers to. Backends implement it.
type Assets interface {
	// Mesh returns a reference to attach to one entity. kind is "cube" or
	// "terrain".
	Mesh(kind string) (*mesh.Ref, error)
	Texture(path string) (engine.TextureHandle, error)
	Shader() engine.ShaderHandle
	// Projection builds a perspective matrix; zero arguments fall back to
	// the runtime configuration.
	Projection(fov, near, far float32) mgl32.Mat4
}

// Built describes what Build added to the world.
type Built struct {
	Entities map[string]engine.EntityID
	Player   engine.EntityID
	Scripts  []scripts.Script
}

type scriptDef struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

// Build creates one entity per object in file order, resolves parents by
// name and attaches components. On error every entity it created is
// destroyed again and the world is left as it was.
func Build(w *engine.World, sf *SceneFile, assets Assets) (*Built, error) {
	b := &Built{Entities: make(map[string]engine.EntityID, len(sf.Objects)), Player: engine.NilEntity}
	var created []engine.EntityID

	fail := func(err error) (*Built, error) {
		for _, e := range created {
			if w.Alive(e) {
				_ = w.Destroy(e)
			}
		}
		return nil, err
	}

	for _, def := range sf.Objects {
		if _, exists := b.Entities[def.Name]; exists {
			return fail(fmt.Errorf("%w: %q", ErrDuplicateName, def.Name))
		}
		e, err := w.CreateEntityTRS(def.Name, def.transform(), engine.NilEntity)
		if err != nil {
			return fail(err)
		}
		created = append(created, e)
		b.Entities[def.Name] = e
	}

	// Parents are wired after every object exists so files may refer
	// forward; SetParent rejects cycles.
	for _, def := range sf.Objects {
		if def.Parent == "" {
			continue
		}
		parent, ok := b.Entities[def.Parent]
		if !ok {
			return fail(fmt.Errorf("object %q: %w %q", def.Name, ErrUnknownParent, def.Parent))
		}
		if err := w.SetParent(b.Entities[def.Name], parent); err != nil {
			return fail(err)
		}
	}

	for _, def := range sf.Objects {
		e := b.Entities[def.Name]
		for _, raw := range def.Components {
			if err := b.attach(w, e, def, raw, assets); err != nil {
				return fail(fmt.Errorf("object %q: %w", def.Name, err))
			}
		}
	}
	return b, nil
}

func (b *Built) attach(w *engine.World, e engine.EntityID, def ObjectDef, raw json.RawMessage, assets Assets) error {
	var header componentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return fmt.Errorf("parse component: %w", err)
	}

	switch header.Type {
	case "MeshRenderer":
		var d MeshRendererDef
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parse MeshRenderer: %w", err)
		}
		return attachMeshRenderer(w, e, d, assets)

	case "Camera":
		var d CameraDef
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parse Camera: %w", err)
		}
		w.Cameras.Attach(e, engine.Camera{Projection: assets.Projection(d.FOV, d.Near, d.Far)})

	case "Light":
		var d LightDef
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parse Light: %w", err)
		}
		color := [3]float32{1, 1, 1}
		if d.Color != "" {
			c, err := LookupColor(d.Color)
			if err != nil {
				return err
			}
			color = c
		}
		intensity := d.Intensity
		if intensity == 0 {
			intensity = 1
		}
		w.Lights.Attach(e, engine.Light{Color: color, Intensity: intensity})

	case "Player":
		if !b.Player.IsNil() {
			return fmt.Errorf("%w: %q and %q", ErrMultiplePlayers, w.Name(b.Player), def.Name)
		}
		b.Player = e

	case "Script":
		var d scriptDef
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("parse Script: %w", err)
		}
		s, err := scripts.Create(d.Name, e, def.transform(), d.Props)
		if err != nil {
			return err
		}
		b.Scripts = append(b.Scripts, s)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownComponent, header.Type)
	}
	return nil
}

func attachMeshRenderer(w *engine.World, e engine.EntityID, d MeshRendererDef, assets Assets) error {
	color, err := LookupColor(d.Color)
	if err != nil {
		return err
	}
	ref, err := assets.Mesh(d.Mesh)
	if err != nil {
		return err
	}

	r := engine.Renderable{Mesh: ref, Shader: assets.Shader(), Color: color}
	if d.Texture != "" {
		tex, err := assets.Texture(d.Texture)
		if err != nil {
			ref.Release()
			return err
		}
		r.Texture = tex
	}
	w.Renderables.Attach(e, r)
	return nil
}

func (def ObjectDef) transform() engine.Transform {
	t := engine.Transform{
		Position: def.Position,
		Rotation: def.Rotation,
		Scale:    def.Scale,
	}
	// Default scale to 1 if zero
	if def.Scale == [3]float32{} {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	return t
}
