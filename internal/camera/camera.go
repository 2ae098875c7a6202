package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitchDegrees = 70.0
	minPitchDegrees = -70.0
)

// FlyCamera is a free-flying perspective camera driven by yaw and pitch in degrees.
type FlyCamera struct {
	Position    mgl32.Vec3
	Yaw         float64
	Pitch       float64
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewFlyCamera(width, height int) *FlyCamera {
	c := &FlyCamera{
		Yaw:       -90,
		FOV:       70.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. A zero height (minimised window) is ignored.
func (c *FlyCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *FlyCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *FlyCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

// Front is the unit view direction.
func (c *FlyCamera) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	pt := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// Right is the horizontal unit vector to the right of Front.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Front().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Rotate adds to yaw and pitch. Pitch is clamped to [-70, 70] degrees.
func (c *FlyCamera) Rotate(dyaw, dpitch float64) {
	c.Yaw = math.Mod(c.Yaw+dyaw, 360)
	c.Pitch = min(max(c.Pitch+dpitch, minPitchDegrees), maxPitchDegrees)
}

// Move translates along the camera axes: forward follows the view direction,
// up is world up.
func (c *FlyCamera) Move(forward, right, up float32) {
	c.Position = c.Position.
		Add(c.Front().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl32.Vec3{0, up, 0})
}

// LookAt points the camera at target.
func (c *FlyCamera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Yaw = float64(mgl32.RadToDeg(float32(math.Atan2(float64(d.Z()), float64(d.X())))))
	c.Pitch = min(max(float64(mgl32.RadToDeg(float32(math.Asin(float64(d.Y()))))), minPitchDegrees), maxPitchDegrees)
}
