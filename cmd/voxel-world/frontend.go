package main

import (
	"voxel-world/internal/game"
	"voxel-world/internal/graphics"
	"voxel-world/internal/input"
	"voxel-world/internal/render"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var skyColor = [3]float32{0.53, 0.71, 0.92}

// windowFrontend is the glfw window. Every call hops to the main thread.
type windowFrontend struct {
	window    *glfw.Window
	input     *input.InputManager
	crosshair *graphics.Crosshair
	captured  bool
	fbw, fbh  int
}

func newWindowFrontend(window *glfw.Window, im *input.InputManager, crosshair *graphics.Crosshair) *windowFrontend {
	f := &windowFrontend{window: window, input: im, crosshair: crosshair, captured: true}
	mainthread.Call(func() {
		im.Install(window)
		window.SetFocusCallback(func(w *glfw.Window, focused bool) {
			if !focused {
				f.release()
			}
		})
	})
	return f
}

func (f *windowFrontend) ShouldClose() bool {
	var done bool
	mainthread.Call(func() { done = f.window.ShouldClose() })
	return done
}

func (f *windowFrontend) PollEvents() game.Input {
	var in game.Input
	mainthread.Call(func() {
		glfw.PollEvents()
		im := f.input

		switch {
		case f.captured && im.JustPressed(input.ActionReleaseCursor):
			f.release()
		case !f.captured && im.JustPressed(input.ActionCaptureCursor):
			f.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			im.ResetCursor()
			f.captured = true
		}

		if w, h := f.window.GetFramebufferSize(); w != f.fbw || h != f.fbh {
			f.fbw, f.fbh = w, h
			gl.Viewport(0, 0, int32(w), int32(h))
			in.Width, in.Height = w, h
		}

		in.MouseDX, in.MouseDY = im.TakeMouseDelta()
		in.Focused = f.captured && f.window.GetAttrib(glfw.Focused) == glfw.True
		in.Forward = im.Axis(input.ActionMoveForward, input.ActionMoveBackward)
		in.Right = im.Axis(input.ActionMoveRight, input.ActionMoveLeft)
		in.Up = im.Axis(input.ActionAscend, input.ActionDescend)
		in.Sprint = im.IsActive(input.ActionSprint)
		in.RemeshAll = im.JustPressed(input.ActionRemeshAll)
		im.PostUpdate()
	})
	return in
}

func (f *windowFrontend) release() {
	f.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	f.input.ResetCursor()
	f.captured = false
}

func (f *windowFrontend) BeginFrame() {
	mainthread.Call(func() {
		gl.ClearColor(skyColor[0], skyColor[1], skyColor[2], 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	})
}

func (f *windowFrontend) EndFrame() {
	mainthread.Call(func() {
		if f.captured && f.fbh > 0 {
			f.crosshair.Draw(float32(f.fbw) / float32(f.fbh))
		}
		f.window.SwapBuffers()
	})
}

// mainThreadDevice runs every device call on the thread owning the GL context.
type mainThreadDevice struct {
	device render.Device
}

func (d mainThreadDevice) AllocateBuffer(kind render.BufferKind, capacity int) (h render.BufferHandle, err error) {
	mainthread.Call(func() { h, err = d.device.AllocateBuffer(kind, capacity) })
	return h, err
}

func (d mainThreadDevice) WriteBuffer(h render.BufferHandle, offset int, data []byte) error {
	return mainthread.CallErr(func() error { return d.device.WriteBuffer(h, offset, data) })
}

func (d mainThreadDevice) UploadBuffer(h render.BufferHandle) error {
	return mainthread.CallErr(func() error { return d.device.UploadBuffer(h) })
}

func (d mainThreadDevice) DrawIndexed(call render.DrawCall) error {
	return mainthread.CallErr(func() error { return d.device.DrawIndexed(call) })
}
