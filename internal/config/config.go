package config

import "sync"

// RenderSettings holds runtime-tunable render configuration
type RenderSettings struct {
	mu               sync.RWMutex
	fov              float32 // degrees
	fpsLimit         int     // 0 = unlimited
	mouseSensitivity float64
	flySpeed         float32 // blocks per second
}

var globalRenderSettings = &RenderSettings{
	fov:              70,
	fpsLimit:         120,
	mouseSensitivity: 0.1,
	flySpeed:         12,
}

// GetFOV returns the vertical field of view in degrees
func GetFOV() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fov
}

// SetFOV sets the field of view, clamped to [30, 110]
func SetFOV(fov float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fov = min(max(fov, 30), 110)
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values disable the cap.
func SetFPSLimit(fps int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if fps < 0 {
		fps = 0
	}
	if fps > 0 && fps < 10 {
		fps = 10
	}
	globalRenderSettings.fpsLimit = fps
}

// GetMouseSensitivity returns degrees of rotation per pixel of mouse motion
func GetMouseSensitivity() float64 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.mouseSensitivity
}

// SetMouseSensitivity sets the mouse sensitivity, clamped to [0.01, 1]
func SetMouseSensitivity(s float64) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.mouseSensitivity = min(max(s, 0.01), 1)
}

// GetFlySpeed returns the camera speed in blocks per second
func GetFlySpeed() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.flySpeed
}

// SetFlySpeed sets the camera speed, clamped to [1, 200]
func SetFlySpeed(speed float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.flySpeed = min(max(speed, 1), 200)
}
