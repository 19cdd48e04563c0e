package render

import (
	"fmt"
	"scene3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var clearColor = rl.NewColor(135, 170, 205, 255)

// Renderer draws an engine.RenderFrame with the lit scene shader.
type Renderer struct {
	shader   sceneShader
	material rl.Material
	blank    rl.Texture2D // the material's default white texture

	Wireframe bool
}

func newRenderer(shader sceneShader) *Renderer {
	mat := rl.LoadMaterialDefault()
	mat.Shader = shader.shader
	return &Renderer{
		shader:   shader,
		material: mat,
		blank:    mat.GetMap(rl.MapAlbedo).Texture,
	}
}

// Draw renders every item of the frame. textures resolves texture handles;
// a handle it does not know draws untextured.
func (r *Renderer) Draw(frame engine.RenderFrame, textures func(engine.TextureHandle) (rl.Texture2D, bool)) error {
	rl.ClearBackground(clearColor)

	// BeginMode3D sets up the 3D state; the camera matrices are then
	// replaced with the extracted view and projection.
	rl.BeginMode3D(rl.Camera3D{
		Position:   toVector3(frame.Camera.Position),
		Target:     toVector3(frame.Camera.Position.Add(frame.Camera.Forward())),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	})
	rl.SetMatrixProjection(toMatrix(frame.Camera.Projection))
	rl.SetMatrixModelview(toMatrix(frame.Camera.View))

	light := frame.Light
	lightColor := light.Color.Mul(light.Intensity)
	r.shader.setVec3(r.shader.lightPos, light.Position[:])
	r.shader.setVec3(r.shader.lightColor, lightColor[:])
	r.shader.setVec3(r.shader.viewPos, frame.Camera.Position[:])

	if r.Wireframe {
		rl.EnableWireMode()
	}

	var err error
	for _, item := range frame.Items {
		if e := r.drawItem(item, textures); e != nil && err == nil {
			err = e
		}
	}

	if r.Wireframe {
		rl.DisableWireMode()
	}
	rl.EndMode3D()
	return err
}

func (r *Renderer) drawItem(item engine.DrawItem, textures func(engine.TextureHandle) (rl.Texture2D, bool)) error {
	buf, ok := item.Mesh.Buffer().(*gpuMesh)
	if !ok || buf == nil {
		return fmt.Errorf("draw %v: mesh not uploaded", item.Entity)
	}

	tex, textured := r.blank, false
	if item.Texture != 0 {
		if t, ok := textures(item.Texture); ok {
			tex, textured = t, true
		}
	}
	r.material.GetMap(rl.MapAlbedo).Texture = tex

	hasTexture := float32(0)
	if textured {
		hasTexture = 1
	}
	r.shader.setFloat(r.shader.hasTexture, hasTexture)
	r.shader.setVec3(r.shader.defaultColor, item.Color[:])

	rl.DrawMesh(buf.mesh, r.material, toMatrix(item.World))
	return nil
}

// Unload frees the shader. The material's maps belong to raylib's default
// material and are left alone.
func (r *Renderer) Unload() {
	rl.UnloadShader(r.shader.shader)
}
