package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"scene3d/internal/camera"
	"scene3d/internal/config"
	"scene3d/internal/engine"
	"scene3d/internal/input"
	"scene3d/internal/mesh"
	"scene3d/internal/scenefile"
	"scene3d/internal/scripts"
	"scene3d/internal/terrain"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownMesh = errors.New("unknown mesh")
	ErrPlayerChild = errors.New("player object must not have a parent")
)

// Backend draws frames and reports input. render.Backend and tui.Backend
// implement it.
type Backend interface {
	input.Source
	// FrameTime returns the seconds elapsed since the previous frame.
	FrameTime() float32
	// Upload creates the GPU buffer for an owning mesh reference.
	Upload(ref *mesh.Ref) error
	LoadTexture(path string) (engine.TextureHandle, error)
	Shader() engine.ShaderHandle
	Bind(hf *terrain.Heightfield, ctrl *camera.FPSController)
	Draw(frame engine.RenderFrame) error
	Close() error
}

type Game struct {
	World      *engine.World
	Terrain    *terrain.Heightfield
	Controller *camera.FPSController
	Player     engine.EntityID

	cfg         config.Config
	log         *slog.Logger
	backend     Backend
	scripts     []scripts.Script
	terrainMesh *mesh.Ref
}

// New generates the terrain, uploads it and builds the scene into a fresh
// world. The game takes ownership of backend and closes it in Close, also
// when New fails.
func New(cfg config.Config, backend Backend, sf *scenefile.SceneFile, logger *slog.Logger) (*Game, error) {
	g := &Game{
		World:   engine.NewWorld(),
		Player:  engine.NilEntity,
		cfg:     cfg,
		log:     logger,
		backend: backend,
	}
	if err := g.init(sf); err != nil {
		_ = g.Close()
		return nil, err
	}
	return g, nil
}

func (g *Game) init(sf *scenefile.SceneFile) error {
	start := time.Now()
	hf, err := terrain.Generate(g.cfg.Terrain)
	if err != nil {
		return err
	}
	g.Terrain = hf
	g.log.Info("terrain generated",
		"width", hf.Width, "height", hf.Height, "seed", g.cfg.Terrain.Seed,
		"triangles", hf.Mesh.TriangleCount(), "took", time.Since(start))

	g.terrainMesh = mesh.New(hf.Mesh)
	if err := g.backend.Upload(g.terrainMesh); err != nil {
		return fmt.Errorf("upload terrain: %w", err)
	}

	g.World.OnDestroyed.AddListener(func(e engine.EntityID) {
		g.log.Debug("entity destroyed", "entity", e)
	})

	built, err := scenefile.Build(g.World, sf, sceneAssets{g})
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	g.scripts = built.Scripts
	g.Player = built.Player
	g.log.Info("scene built", "objects", len(built.Entities), "scripts", len(built.Scripts))

	p := g.cfg.Player
	x, z := g.startXZ()
	g.Controller = &camera.FPSController{
		Position:  mgl32.Vec3{x, hf.HeightAt(x, z) + p.EyeHeight, z},
		Yaw:       p.Yaw,
		Pitch:     p.Pitch,
		MoveSpeed: p.MoveSpeed,
		LookSpeed: p.LookSpeed,
		EyeHeight: p.EyeHeight,
	}
	g.log.Debug("player placed", "x", x, "z", z)

	if g.Player.IsNil() {
		g.log.Warn("scene has no player object, camera stays fixed")
	} else {
		if !g.World.Parent(g.Player).IsNil() {
			return fmt.Errorf("%w: %q", ErrPlayerChild, g.World.Name(g.Player))
		}
		if err := g.World.SetLocal(g.Player, g.Controller.Transform()); err != nil {
			return fmt.Errorf("place player: %w", err)
		}
	}

	g.backend.Bind(hf, g.Controller)
	return nil
}

// startXZ is where the player starts on the ground plane: the X and Z the
// scene file gives the player object, or the configured start when the
// object sits at the origin. Its authored height is always replaced by the
// terrain height plus eye height.
func (g *Game) startXZ() (float32, float32) {
	p := g.cfg.Player
	if g.Player.IsNil() {
		return p.StartX, p.StartZ
	}
	local, _ := g.World.Local(g.Player)
	at := engine.TranslationOf(local)
	if at.X() == 0 && at.Z() == 0 {
		return p.StartX, p.StartZ
	}
	return at.X(), at.Z()
}

// Step runs one frame: scripts and the player controller write local
// transforms, then propagation, camera and light extraction and drawing
// follow in that order.
func (g *Game) Step(in input.State, dt float32) error {
	w := g.World
	w.BeginFrame()

	for _, s := range g.scripts {
		if err := s.Update(w, dt); err != nil {
			return fmt.Errorf("run script: %w", err)
		}
	}

	if !g.Player.IsNil() {
		local := g.Controller.Update(in, dt, g.Terrain)
		if err := w.SetLocal(g.Player, local); err != nil {
			return fmt.Errorf("update player: %w", err)
		}
	}

	engine.PropagateTransforms(w)
	if err := engine.ExtractActiveCamera(w); err != nil {
		return err
	}
	if err := engine.ExtractActiveLight(w); err != nil {
		return err
	}

	frame, err := engine.RenderList(w)
	if err != nil {
		return err
	}
	if err := g.backend.Draw(frame); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Run steps frames until the backend reports quit, ctx is cancelled or
// maxFrames frames have run. maxFrames 0 means no limit. A failing frame
// stops the loop and its error is returned.
func (g *Game) Run(ctx context.Context, maxFrames uint64) error {
	for n := uint64(0); maxFrames == 0 || n < maxFrames; n++ {
		if err := ctx.Err(); err != nil {
			g.log.Info("stopping", "reason", err)
			return nil
		}

		in := g.backend.Poll()
		if in.Quit {
			g.log.Info("quit requested", "frames", n)
			return nil
		}

		if err := g.Step(in, g.backend.FrameTime()); err != nil {
			g.log.Error("frame failed", "frame", g.World.Frame(), "err", err)
			return fmt.Errorf("frame %d: %w", g.World.Frame(), err)
		}
	}
	g.log.Info("frame limit reached", "frames", maxFrames)
	return nil
}

// Close destroys the world, releases the terrain mesh and closes the
// backend.
func (g *Game) Close() error {
	g.World.Close()
	g.terrainMesh.Release()
	return g.backend.Close()
}

// sceneAssets resolves scene file references through the backend.
type sceneAssets struct {
	g *Game
}

func (a sceneAssets) Mesh(kind string) (*mesh.Ref, error) {
	switch kind {
	case "terrain":
		return a.g.terrainMesh.Share(), nil
	case "cube":
		ref := mesh.New(mesh.Cube())
		if err := a.g.backend.Upload(ref); err != nil {
			return nil, fmt.Errorf("upload cube: %w", err)
		}
		return ref, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMesh, kind)
}

func (a sceneAssets) Texture(path string) (engine.TextureHandle, error) {
	return a.g.backend.LoadTexture(path)
}

func (a sceneAssets) Shader() engine.ShaderHandle {
	return a.g.backend.Shader()
}

func (a sceneAssets) Projection(fov, near, far float32) mgl32.Mat4 {
	c := a.g.cfg.Camera
	if fov == 0 {
		fov = c.FOV
	}
	if near == 0 {
		near = c.Near
	}
	if far == 0 {
		far = c.Far
	}
	return mgl32.Perspective(mgl32.DegToRad(fov), a.g.cfg.Aspect(), near, far)
}
