package render

import (
	"fmt"
	"log/slog"
	"scene3d/internal/assets"
	"scene3d/internal/camera"
	"scene3d/internal/config"
	"scene3d/internal/engine"
	"scene3d/internal/input"
	"scene3d/internal/mesh"
	"scene3d/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// sceneShaderHandle is the only shader the backend knows.
const sceneShaderHandle engine.ShaderHandle = 1

// Backend is the windowed raylib graphics backend. All of its methods must
// be called from the goroutine that opened it.
type Backend struct {
	log      *slog.Logger
	renderer *Renderer
	textures *assets.Cache[rl.Texture2D]
	overlay  Overlay

	hf   *terrain.Heightfield
	ctrl *camera.FPSController
}

// Open creates the window and loads the scene shader. A shader that is
// missing or does not compile is a startup error.
func Open(cfg config.Config, logger *slog.Logger) (*Backend, error) {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("open window: initialization failed")
	}
	rl.SetTargetFPS(cfg.Window.TargetFPS)

	shader, err := loadShader(cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		rl.CloseWindow()
		return nil, err
	}
	logger.Info("shader loaded", "vertex", cfg.Shaders.Vertex, "fragment", cfg.Shaders.Fragment)

	applyOverlayStyle()
	rl.DisableCursor()

	return &Backend{
		log:      logger,
		renderer: newRenderer(shader),
		textures: assets.NewCache("texture", loadTexture, rl.UnloadTexture),
	}, nil
}

// Poll reads keyboard and mouse state for this frame. F1 toggles the debug
// overlay and frees the cursor while it is open.
func (b *Backend) Poll() input.State {
	if rl.IsKeyPressed(rl.KeyF1) {
		b.overlay.Visible = !b.overlay.Visible
		if b.overlay.Visible {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}

	var s input.State
	s.Quit = rl.WindowShouldClose()
	if b.overlay.Visible {
		return s
	}

	d := rl.GetMouseDelta()
	s.MouseDelta[0], s.MouseDelta[1] = d.X, d.Y
	s.Axis = input.Keys{
		Forward: rl.IsKeyDown(rl.KeyW),
		Back:    rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyD),
	}.Axis()
	return s
}

func (b *Backend) FrameTime() float32 {
	return rl.GetFrameTime()
}

// Upload creates the GPU buffer for an owning mesh reference.
func (b *Backend) Upload(ref *mesh.Ref) error {
	if ref.Buffer() != nil {
		return nil
	}
	g, err := uploadMesh(ref.Mesh())
	if err != nil {
		return err
	}
	ref.SetBuffer(g)
	return nil
}

func (b *Backend) LoadTexture(path string) (engine.TextureHandle, error) {
	id, err := b.textures.Load(path)
	if err != nil {
		return 0, err
	}
	b.log.Debug("texture loaded", "path", path, "handle", id)
	return engine.TextureHandle(id), nil
}

func (b *Backend) Shader() engine.ShaderHandle {
	return sceneShaderHandle
}

// Bind gives the overlay access to the terrain and the player controller.
func (b *Backend) Bind(hf *terrain.Heightfield, ctrl *camera.FPSController) {
	b.hf, b.ctrl = hf, ctrl
}

func (b *Backend) Draw(frame engine.RenderFrame) error {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	err := b.renderer.Draw(frame, func(h engine.TextureHandle) (rl.Texture2D, bool) {
		return b.textures.Get(uint32(h))
	})
	b.overlay.Draw(frame, b.renderer, b.ctrl, b.hf)
	return err
}

// Close unloads textures and the shader, then closes the window. Mesh
// buffers are released by their owners before this is called.
func (b *Backend) Close() error {
	b.textures.Unload()
	b.renderer.Unload()
	rl.CloseWindow()
	return nil
}
