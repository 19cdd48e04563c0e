package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"scene3d/internal/terrain"
	"strings"
)

var ErrInvalid = errors.New("invalid config")

type Window struct {
	Width     int32  `json:"width"`
	Height    int32  `json:"height"`
	Title     string `json:"title"`
	TargetFPS int32  `json:"targetFPS"`
}

type Player struct {
	MoveSpeed float32 `json:"moveSpeed"`
	LookSpeed float32 `json:"lookSpeed"`
	EyeHeight float32 `json:"eyeHeight"`
	StartX    float32 `json:"startX"`
	StartZ    float32 `json:"startZ"`
	Yaw       float32 `json:"yaw"`
	Pitch     float32 `json:"pitch"`
}

type Camera struct {
	FOV  float32 `json:"fov"` // vertical, degrees
	Near float32 `json:"near"`
	Far  float32 `json:"far"`
}

type Shaders struct {
	Vertex   string `json:"vertex"`
	Fragment string `json:"fragment"`
}

// Config holds everything the runtime reads at startup.
type Config struct {
	Window   Window         `json:"window"`
	Terrain  terrain.Params `json:"terrain"`
	Player   Player         `json:"player"`
	Camera   Camera         `json:"camera"`
	Shaders  Shaders        `json:"shaders"`
	LogLevel string         `json:"logLevel"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "scene3d",
			TargetFPS: 60,
		},
		Terrain: terrain.DefaultParams(),
		Player: Player{
			MoveSpeed: 8,
			LookSpeed: 0.1,
			EyeHeight: 5,
			StartX:    64,
			StartZ:    64,
			Yaw:       -135,
			Pitch:     -30,
		},
		Camera: Camera{
			FOV:  45,
			Near: 0.1,
			Far:  100,
		},
		Shaders: Shaders{
			Vertex:   "assets/shaders/terrain.vs",
			Fragment: "assets/shaders/terrain.fs",
		},
		LogLevel: "info",
	}
}

// Load reads a JSON config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: fov %g", ErrInvalid, c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Player.MoveSpeed < 0 || c.Player.LookSpeed < 0 {
		return fmt.Errorf("%w: negative player speed", ErrInvalid)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Terrain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Aspect is the window width over height.
func (c Config) Aspect() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return l, nil
}
