package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
render:
  fov: 90
  strict_meshing: true
meshing:
  workers: 3
  retry_backoff: 250ms
world:
  generator: flat
  radius: 2
log:
  format: json
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Render.FOV != 90 || !f.Render.StrictMeshing {
		t.Errorf("render: got %+v", f.Render)
	}
	if f.Meshing.Workers != 3 || f.Meshing.RetryBackoff != 250*time.Millisecond {
		t.Errorf("meshing: got %+v", f.Meshing)
	}
	if f.World.Generator != GeneratorFlat || f.World.Radius != 2 {
		t.Errorf("world: got %+v", f.World)
	}
	// untouched keys keep their defaults
	if f.Window.Width != 1280 || f.Render.VertexBufferMiB != 48 || f.Log.Level != "info" {
		t.Errorf("defaults lost: window=%+v render=%+v log=%+v", f.Window, f.Render, f.Log)
	}
}

func TestLoadEmptyPathAndEmptyFile(t *testing.T) {
	if _, err := Load(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if _, err := Load(writeFile(t, "")); err != nil {
		t.Fatalf("empty file: %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "log:\n  format: xml\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file loaded")
	}
}

func TestSettersClamp(t *testing.T) {
	defer Default().Apply()

	SetFOV(500)
	if GetFOV() != 110 {
		t.Errorf("FOV: got %v, want 110", GetFOV())
	}
	SetFPSLimit(3)
	if GetFPSLimit() != 10 {
		t.Errorf("FPS limit: got %d, want 10", GetFPSLimit())
	}
	SetFPSLimit(-1)
	if GetFPSLimit() != 0 {
		t.Errorf("FPS limit: got %d, want 0", GetFPSLimit())
	}
	SetWorldRadius(1000)
	if GetWorldRadius() != 32 {
		t.Errorf("radius: got %d, want 32", GetWorldRadius())
	}
	SetGenerator("caves")
	if GetGenerator() != GeneratorNoise {
		t.Errorf("generator: got %q", GetGenerator())
	}
}

func TestApply(t *testing.T) {
	defer Default().Apply()

	f := Default()
	f.Render.FlySpeed = 40
	f.World.Seed = 99
	f.Apply()
	if GetFlySpeed() != 40 || GetSeed() != 99 {
		t.Fatalf("Apply: speed=%v seed=%v", GetFlySpeed(), GetSeed())
	}
	if f.VertexBufferBytes() != 48<<20 {
		t.Fatalf("VertexBufferBytes: got %d", f.VertexBufferBytes())
	}
}
