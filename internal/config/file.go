package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is matched by every settings file validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// File is the YAML settings file. Startup-only values are read from it
// directly; runtime-tunable values are pushed into the package globals by Apply.
type File struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Meshing MeshingConfig `yaml:"meshing"`
	World   WorldConfig   `yaml:"world"`
	Log     LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type RenderConfig struct {
	FOV              float32 `yaml:"fov"`
	FPSLimit         int     `yaml:"fps_limit"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
	FlySpeed         float32 `yaml:"fly_speed"`
	VertexBufferMiB  int     `yaml:"vertex_buffer_mib"`
	IndexBufferMiB   int     `yaml:"index_buffer_mib"`
	StrictMeshing    bool    `yaml:"strict_meshing"`
}

type MeshingConfig struct {
	Workers      int           `yaml:"workers"` // 0 = one per CPU
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

type WorldConfig struct {
	Seed       int64  `yaml:"seed"`
	Generator  string `yaml:"generator"`
	Radius     int    `yaml:"radius"`
	Height     int    `yaml:"height"`
	BaseHeight int    `yaml:"base_height"`
}

type LogConfig struct {
	Level     string        `yaml:"level"`
	Format    string        `yaml:"format"` // text or json
	SlowFrame time.Duration `yaml:"slow_frame"`
}

// Default returns the built-in settings.
func Default() *File {
	return &File{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "voxel-world", VSync: true},
		Render: RenderConfig{
			FOV:              GetFOV(),
			FPSLimit:         GetFPSLimit(),
			MouseSensitivity: GetMouseSensitivity(),
			FlySpeed:         GetFlySpeed(),
			VertexBufferMiB:  48,
			IndexBufferMiB:   12,
		},
		Meshing: MeshingConfig{MaxRetries: 2, RetryBackoff: 10 * time.Millisecond},
		World: WorldConfig{
			Seed:       GetSeed(),
			Generator:  GetGenerator(),
			Radius:     GetWorldRadius(),
			Height:     GetWorldHeight(),
			BaseHeight: GetBaseHeight(),
		},
		Log: LogConfig{Level: "info", Format: "text", SlowFrame: 50 * time.Millisecond},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer fp.Close()

	if err := yaml.NewDecoder(fp).Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate rejects values that cannot be clamped into something usable.
func (f *File) Validate() error {
	switch {
	case f.Window.Width <= 0 || f.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, f.Window.Width, f.Window.Height)
	case f.Render.VertexBufferMiB <= 0 || f.Render.IndexBufferMiB <= 0:
		return fmt.Errorf("%w: buffer sizes must be positive", ErrInvalidConfig)
	case f.Meshing.Workers < 0 || f.Meshing.MaxRetries < 0:
		return fmt.Errorf("%w: meshing workers and retries must not be negative", ErrInvalidConfig)
	case f.Log.Format != "text" && f.Log.Format != "json":
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, f.Log.Format)
	case f.World.Generator != GeneratorNoise && f.World.Generator != GeneratorFlat:
		return fmt.Errorf("%w: generator %q", ErrInvalidConfig, f.World.Generator)
	}
	return nil
}

// Apply pushes the runtime-tunable values into the package globals.
func (f *File) Apply() {
	SetFOV(f.Render.FOV)
	SetFPSLimit(f.Render.FPSLimit)
	SetMouseSensitivity(f.Render.MouseSensitivity)
	SetFlySpeed(f.Render.FlySpeed)

	SetSeed(f.World.Seed)
	SetGenerator(f.World.Generator)
	SetWorldRadius(f.World.Radius)
	SetWorldHeight(f.World.Height)
	SetBaseHeight(f.World.BaseHeight)
}

// VertexBufferBytes is the merged vertex buffer capacity in bytes.
func (f *File) VertexBufferBytes() int { return f.Render.VertexBufferMiB << 20 }

// IndexBufferBytes is the merged index buffer capacity in bytes.
func (f *File) IndexBufferBytes() int { return f.Render.IndexBufferMiB << 20 }
