package render

import (
	"errors"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrShaderCompile = errors.New("shader failed to compile")
	ErrTextureLoad   = errors.New("texture failed to load")
)

// sceneShader is the lit shader with the locations of its custom uniforms.
// raylib fills mvp, matModel and matNormal itself when drawing a mesh.
type sceneShader struct {
	shader       rl.Shader
	lightPos     int32
	lightColor   int32
	viewPos      int32
	hasTexture   int32
	defaultColor int32
}

// loadShader reads a vertex/fragment pair from disk and compiles it.
func loadShader(vsPath, fsPath string) (sceneShader, error) {
	vs, err := os.ReadFile(vsPath)
	if err != nil {
		return sceneShader{}, fmt.Errorf("read vertex shader: %w", err)
	}
	fs, err := os.ReadFile(fsPath)
	if err != nil {
		return sceneShader{}, fmt.Errorf("read fragment shader: %w", err)
	}

	sh := rl.LoadShaderFromMemory(string(vs), string(fs))
	if !rl.IsShaderValid(sh) {
		return sceneShader{}, fmt.Errorf("%w: %s + %s", ErrShaderCompile, vsPath, fsPath)
	}

	return sceneShader{
		shader:       sh,
		lightPos:     rl.GetShaderLocation(sh, "lightPos"),
		lightColor:   rl.GetShaderLocation(sh, "lightColor"),
		viewPos:      rl.GetShaderLocation(sh, "viewPos"),
		hasTexture:   rl.GetShaderLocation(sh, "has_texture"),
		defaultColor: rl.GetShaderLocation(sh, "default_color"),
	}, nil
}

func (s sceneShader) setVec3(loc int32, v []float32) {
	rl.SetShaderValue(s.shader, loc, v, rl.ShaderUniformVec3)
}

func (s sceneShader) setFloat(loc int32, v float32) {
	rl.SetShaderValue(s.shader, loc, []float32{v}, rl.ShaderUniformFloat)
}

func loadTexture(path string) (rl.Texture2D, error) {
	if _, err := os.Stat(path); err != nil {
		return rl.Texture2D{}, err
	}
	tex := rl.LoadTexture(path)
	if !rl.IsTextureValid(tex) {
		return rl.Texture2D{}, fmt.Errorf("%w: %s", ErrTextureLoad, path)
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex, nil
}
