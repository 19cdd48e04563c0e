package scenefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrUnknownComponent = errors.New("unknown component type")
	ErrUnknownParent    = errors.New("unknown parent")
	ErrDuplicateName    = errors.New("duplicate object name")
	ErrUnknownColor     = errors.New("unknown color")
)

// --- JSON types ---

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name       string            `json:"name"`
	Parent     string            `json:"parent,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components,omitempty"`
}

type componentHeader struct {
	Type string `json:"type"`
}

// MeshRendererDef draws a built-in mesh: "cube" or "terrain".
type MeshRendererDef struct {
	Type    string `json:"type"`
	Mesh    string `json:"mesh"`
	Color   string `json:"color,omitempty"`
	Texture string `json:"texture,omitempty"`
}

// CameraDef leaves zero fields to the runtime configuration.
type CameraDef struct {
	Type string  `json:"type"`
	FOV  float32 `json:"fov,omitempty"`
	Near float32 `json:"near,omitempty"`
	Far  float32 `json:"far,omitempty"`
}

type LightDef struct {
	Type      string  `json:"type"`
	Color     string  `json:"color,omitempty"`
	Intensity float32 `json:"intensity,omitempty"`
}

// PlayerDef marks the entity driven by the first-person controller.
type PlayerDef struct {
	Type string `json:"type"`
}

// --- Color mapping ---

var colorByName = map[string][3]float32{
	"Default":   {0.8, 0.5, 0.2},
	"Red":       {0.9, 0.16, 0.22},
	"Blue":      {0, 0.47, 0.95},
	"Green":     {0, 0.89, 0.19},
	"Purple":    {0.78, 0.48, 1},
	"Orange":    {1, 0.63, 0},
	"Yellow":    {0.99, 0.98, 0},
	"SkyBlue":   {0.4, 0.75, 1},
	"White":     {1, 1, 1},
	"LightGray": {0.78, 0.78, 0.78},
	"Gray":      {0.51, 0.51, 0.51},
	"Brown":     {0.5, 0.42, 0.31},
	"Gold":      {1, 0.8, 0},
}

// LookupColor resolves a named color or a "#rrggbb" hex string. The empty
// string is the default orange.
func LookupColor(name string) ([3]float32, error) {
	if name == "" {
		return colorByName["Default"], nil
	}
	if c, ok := colorByName[name]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(name, "#"); ok && len(hex) == 6 {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return [3]float32{
				float32(v>>16&0xff) / 255,
				float32(v>>8&0xff) / 255,
				float32(v&0xff) / 255,
			}, nil
		}
	}
	return [3]float32{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// --- Loading ---

func Load(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	sf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func Parse(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &sf, nil
}

func (sf *SceneFile) Save(path string) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// Component encodes a component definition for ObjectDef.Components.
func Component(def any) json.RawMessage {
	data, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("scenefile: marshal %T: %v", def, err))
	}
	return data
}
