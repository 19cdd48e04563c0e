package scenefile

import "encoding/json"

// Default is the built-in scene used when no scene file is given: the
// terrain, a cube orbiting a pivot above it, one light and the player.
func Default() *SceneFile {
	return &SceneFile{Objects: []ObjectDef{
		{
			Name: "Terrain",
			Components: []json.RawMessage{
				Component(MeshRendererDef{Type: "MeshRenderer", Mesh: "terrain", Color: "#6b8e4e"}),
			},
		},
		{
			Name:     "Pivot",
			Parent:   "Terrain",
			Position: [3]float32{64, 14, 64},
			Components: []json.RawMessage{
				Component(scriptDef{Type: "Script", Name: "Rotator", Props: map[string]any{"speed": 30.0}}),
			},
		},
		{
			Name:     "Cube",
			Parent:   "Pivot",
			Position: [3]float32{6, 0, 0},
			Scale:    [3]float32{2, 2, 2},
			Components: []json.RawMessage{
				Component(MeshRendererDef{Type: "MeshRenderer", Mesh: "cube"}),
				Component(scriptDef{Type: "Script", Name: "Animator", Props: map[string]any{"rotationSpeed": 45.0}}),
			},
		},
		{
			Name:     "Sun",
			Position: [3]float32{64, 40, 32},
			Components: []json.RawMessage{
				Component(LightDef{Type: "Light", Color: "White", Intensity: 1}),
			},
		},
		{
			Name:     "Player",
			Position: [3]float32{64, 0, 64},
			Components: []json.RawMessage{
				Component(CameraDef{Type: "Camera"}),
				Component(PlayerDef{Type: "Player"}),
			},
		},
	}}
}
