// Package tui is a terminal backend: it draws a shaded top-down map of the
// scene and reads movement from the keyboard. It needs no GPU and runs over
// ssh.
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"scene3d/internal/assets"
	"scene3d/internal/camera"
	"scene3d/internal/config"
	"scene3d/internal/engine"
	"scene3d/internal/input"
	"scene3d/internal/mesh"
	"scene3d/internal/terrain"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	// lookStep is the mouse movement, in pixels, one arrow key press stands for.
	lookStep = 40
	// maxFrameTime caps dt after a stall so the player does not jump.
	maxFrameTime = 0.1
	maxFPS       = 30
)

const sceneShaderHandle engine.ShaderHandle = 1

// Backend draws to a tcell screen. Terminals report key presses but not
// releases, so each press moves the player for a single frame.
type Backend struct {
	log      *slog.Logger
	screen   tcell.Screen
	events   chan tcell.Event
	done     chan struct{}
	stopped  chan struct{}
	canvas   *canvas
	textures *assets.Cache[string]

	interval time.Duration
	last     time.Time
	scale    float32
	closed   bool

	hf     *terrain.Heightfield
	lo, hi float32
	ctrl   *camera.FPSController
}

// Open takes over the terminal.
func Open(cfg config.Config, logger *slog.Logger) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return newBackend(screen, cfg, logger), nil
}

// newBackend wraps an initialised screen and starts reading its events.
func newBackend(screen tcell.Screen, cfg config.Config, logger *slog.Logger) *Backend {
	fps := cfg.Window.TargetFPS
	if fps <= 0 || fps > maxFPS {
		fps = maxFPS
	}
	screen.HideCursor()
	w, h := screen.Size()

	b := &Backend{
		log:      logger,
		screen:   screen,
		events:   make(chan tcell.Event, 32),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		canvas:   newCanvas(w, h),
		textures: assets.NewCache("texture", statTexture, nil),
		interval: time.Second / time.Duration(fps),
		last:     time.Now(),
		scale:    1,
	}
	logger.Info("terminal opened", "width", w, "height", h, "fps", fps)

	go func() {
		defer close(b.stopped)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(b.events)
				return
			}
			select {
			case b.events <- ev:
			case <-b.done:
				return
			}
		}
	}()
	return b
}

// Poll drains every pending terminal event.
func (b *Backend) Poll() input.State {
	var (
		s    input.State
		keys input.Keys
	)
	for {
		select {
		case ev, ok := <-b.events:
			if !ok {
				b.closed = true
				s.Quit = true
				return s
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				b.log.Debug("terminal resized", "width", w, "height", h)
				b.screen.Sync()
			case *tcell.EventKey:
				b.handleKey(ev, &s, &keys)
			}
		default:
			s.Axis = keys.Axis()
			return s
		}
	}
}

func (b *Backend) handleKey(ev *tcell.EventKey, s *input.State, keys *input.Keys) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.Quit = true
	case tcell.KeyUp:
		s.MouseDelta[1] -= lookStep
	case tcell.KeyDown:
		s.MouseDelta[1] += lookStep
	case tcell.KeyLeft:
		s.MouseDelta[0] -= lookStep
	case tcell.KeyRight:
		s.MouseDelta[0] += lookStep
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'w':
			keys.Forward = true
		case 's':
			keys.Back = true
		case 'a':
			keys.Left = true
		case 'd':
			keys.Right = true
		case 'q':
			s.Quit = true
		case '+', '=':
			b.zoom(0.5)
		case '-', '_':
			b.zoom(2)
		}
	}
}

func (b *Backend) zoom(factor float32) {
	b.scale = min(max(b.scale*factor, minScale), maxScale)
}

// FrameTime waits out the rest of the frame interval and returns the time
// since the previous call in seconds.
func (b *Backend) FrameTime() float32 {
	if wait := b.interval - time.Since(b.last); wait > 0 {
		time.Sleep(wait)
	}
	now := time.Now()
	dt := now.Sub(b.last).Seconds()
	b.last = now
	return float32(min(dt, maxFrameTime))
}

// Upload is a no-op: the map is drawn from the heightfield and item
// positions, not from mesh data.
func (b *Backend) Upload(ref *mesh.Ref) error {
	return nil
}

// LoadTexture only checks that the file exists so both backends accept and
// reject the same scenes.
func (b *Backend) LoadTexture(path string) (engine.TextureHandle, error) {
	id, err := b.textures.Load(path)
	if err != nil {
		return 0, err
	}
	return engine.TextureHandle(id), nil
}

func statTexture(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (b *Backend) Shader() engine.ShaderHandle {
	return sceneShaderHandle
}

// Bind hands the backend the terrain to shade and the controller to report.
func (b *Backend) Bind(hf *terrain.Heightfield, ctrl *camera.FPSController) {
	b.hf, b.ctrl = hf, ctrl
	b.lo, b.hi = 0, 0
	if hf == nil || len(hf.Elevations) == 0 {
		return
	}
	b.lo, b.hi = hf.Elevations[0], hf.Elevations[0]
	for _, e := range hf.Elevations[1:] {
		b.lo = min(b.lo, e)
		b.hi = max(b.hi, e)
	}
}

func (b *Backend) Draw(frame engine.RenderFrame) error {
	if b.closed {
		return nil
	}
	w, h := b.screen.Size()
	b.canvas.resize(w, h)
	b.canvas.clear()

	drawMap(b.canvas, frame, b.hf, b.lo, b.hi, b.scale)
	b.drawHUD(frame)

	b.canvas.flush(b.screen)
	b.screen.Show()
	return nil
}

type hudLine struct {
	text  string
	style tcell.Style
}

func (b *Backend) drawHUD(frame engine.RenderFrame) {
	cam := frame.Camera
	lines := []hudLine{{
		fmt.Sprintf("frame %d  entities %d  draws %d  pos %.1f %.1f %.1f  zoom %.2g",
			frame.Frame, frame.Entities, len(frame.Items), cam.Position.X(), cam.Position.Y(), cam.Position.Z(), b.scale),
		styleHUD,
	}}
	if b.ctrl != nil {
		lines = append(lines, hudLine{
			fmt.Sprintf("yaw %.0f  pitch %.0f  speed %.1f", b.ctrl.Yaw, b.ctrl.Pitch, b.ctrl.MoveSpeed),
			styleHUD,
		})
	}
	lines = append(lines, hudLine{"wasd move  arrows look  +/- zoom  q quit", styleHint})

	for i, l := range lines {
		y := i
		if i == len(lines)-1 {
			y = b.canvas.h - 1
		}
		b.canvas.text(0, y, runewidth.Truncate(l.text, b.canvas.w, "…"), l.style)
	}
}

// Close restores the terminal.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	b.textures.Unload()
	b.screen.Fini()
	<-b.stopped
	return nil
}
