package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFlyCameraPitchClamp(t *testing.T) {
	c := NewFlyCamera(800, 600)
	c.Rotate(0, 500)
	if c.Pitch != maxPitchDegrees {
		t.Fatalf("pitch: got %v, want %v", c.Pitch, maxPitchDegrees)
	}
	c.Rotate(0, -1000)
	if c.Pitch != minPitchDegrees {
		t.Fatalf("pitch: got %v, want %v", c.Pitch, minPitchDegrees)
	}
}

func TestFlyCameraFrontDefault(t *testing.T) {
	c := NewFlyCamera(800, 600)
	// yaw -90 looks down -Z
	if f := c.Front(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Fatalf("front: got %v", f)
	}
}

func TestFlyCameraMoveAndLookAt(t *testing.T) {
	c := NewFlyCamera(800, 600)
	c.Move(2, 0, 1)
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{0, 1, -2}, 1e-5) {
		t.Fatalf("position: got %v", c.Position)
	}

	c.Position = mgl32.Vec3{}
	c.LookAt(mgl32.Vec3{10, 0, 0})
	if math.Abs(c.Yaw) > 1e-3 || math.Abs(c.Pitch) > 1e-3 {
		t.Fatalf("yaw/pitch: got %v/%v, want 0/0", c.Yaw, c.Pitch)
	}
	c.LookAt(mgl32.Vec3{0, 100, 0})
	if c.Pitch != maxPitchDegrees {
		t.Fatalf("looking straight up should clamp pitch, got %v", c.Pitch)
	}
}

func TestFlyCameraViewport(t *testing.T) {
	c := NewFlyCamera(800, 400)
	if c.AspectRatio != 2 {
		t.Fatalf("aspect: got %v", c.AspectRatio)
	}
	c.SetViewport(100, 0)
	if c.AspectRatio != 2 {
		t.Fatalf("zero height changed aspect to %v", c.AspectRatio)
	}
	p := c.Projection()
	if p.At(3, 2) != -1 {
		t.Fatalf("not a perspective matrix: %v", p)
	}
}
