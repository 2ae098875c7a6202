package game

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"voxel-world/internal/config"
	"voxel-world/internal/meshing"
	"voxel-world/internal/render"
	"voxel-world/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

var stone = world.SolidBlock(world.BlockTypeStone)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// scriptedFrontend waits for the mesher before every poll so each frame sees
// the results of everything dispatched in earlier frames.
type scriptedFrontend struct {
	mesher  *meshing.ChunkMesher
	inputs  []Input
	onPoll  func(frame int)
	polled  int
	begun   int
	ended   int
	closeAt int
}

func (f *scriptedFrontend) ShouldClose() bool { return f.closeAt > 0 && f.polled >= f.closeAt }

func (f *scriptedFrontend) PollEvents() Input {
	f.mesher.Wait()
	if f.onPoll != nil {
		f.onPoll(f.polled)
	}
	in := Input{Focused: true}
	if f.polled < len(f.inputs) {
		in = f.inputs[f.polled]
	}
	f.polled++
	return in
}

func (f *scriptedFrontend) BeginFrame() { f.begun++ }
func (f *scriptedFrontend) EndFrame()   { f.ended++ }

type recordingCamera struct {
	moves     []mgl32.Vec3
	rotations [][2]float64
	viewport  [2]int
}

func (c *recordingCamera) View() mgl32.Mat4       { return mgl32.Ident4() }
func (c *recordingCamera) Projection() mgl32.Mat4 { return mgl32.Ident4() }
func (c *recordingCamera) Move(f, r, u float32)   { c.moves = append(c.moves, mgl32.Vec3{f, r, u}) }
func (c *recordingCamera) Rotate(dy, dp float64)  { c.rotations = append(c.rotations, [2]float64{dy, dp}) }
func (c *recordingCamera) SetViewport(w, h int)   { c.viewport = [2]int{w, h} }

type harness struct {
	app    *App
	fe     *scriptedFrontend
	dev    *render.MemoryDevice
	cam    *recordingCamera
	world  *world.World
	mesher *meshing.ChunkMesher
}

func newHarness(t *testing.T, w *world.World, ropts render.Options, opts Options) *harness {
	t.Helper()
	saved := config.Default()
	t.Cleanup(saved.Apply)
	config.SetFPSLimit(0)

	mesher := meshing.NewChunkMesher(meshing.Options{Workers: 2, Logger: quietLogger()})
	t.Cleanup(mesher.Close)

	dev := render.NewMemoryDevice()
	ropts.Logger = quietLogger()
	sys, err := render.NewWorldRenderSystem(dev, mesher, ropts)
	if err != nil {
		t.Fatalf("NewWorldRenderSystem: %v", err)
	}

	fe := &scriptedFrontend{mesher: mesher}
	cam := &recordingCamera{}
	opts.Logger = quietLogger()
	return &harness{
		app:    NewApp(fe, w, sys, cam, opts),
		fe:     fe,
		dev:    dev,
		cam:    cam,
		world:  w,
		mesher: mesher,
	}
}

func singleBlockWorld() *world.World {
	w := world.NewWorld()
	w.SetBlockAtPosition(world.NewBlockPosition(0, 0, 0), stone)
	return w
}

func TestRunDrawsOncePerFrame(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{MaxFrames: 3})
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.app.Frames() != 3 || h.fe.begun != 3 || h.fe.ended != 3 {
		t.Fatalf("frames=%d begun=%d ended=%d", h.app.Frames(), h.fe.begun, h.fe.ended)
	}
	draws := h.dev.Draws()
	if len(draws) != 3 {
		t.Fatalf("draws: got %d, want 3", len(draws))
	}
	for i, d := range draws {
		if d.IndexCount != 36 {
			t.Errorf("draw %d: got %d indices, want 36", i, d.IndexCount)
		}
	}
}

func TestRunStopsWhenFrontendCloses(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{})
	h.fe.closeAt = 2
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.app.Frames() != 2 {
		t.Fatalf("frames: got %d, want 2", h.app.Frames())
	}
}

func TestRunRemeshesEditedChunks(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{MaxFrames: 3})
	h.fe.onPoll = func(frame int) {
		if frame == 1 {
			h.world.SetBlockAtPosition(world.NewBlockPosition(1, 0, 0), stone)
		}
	}
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	draws := h.dev.Draws()
	if len(draws) != 3 {
		t.Fatalf("draws: got %d, want 3", len(draws))
	}
	// the edit is dispatched in frame 1 and collected by frame 2 at the latest
	if draws[0].IndexCount != 36 || draws[2].IndexCount != 60 {
		t.Fatalf("index counts: %d then %d, want 36 then 60", draws[0].IndexCount, draws[2].IndexCount)
	}
}

func TestRunFailsOnCapacityOverrun(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{VertexBufferBytes: render.VertexStride}, Options{MaxFrames: 5})
	err := h.app.Run()
	if !errors.Is(err, render.ErrBufferCapacityExceeded) {
		t.Fatalf("expected ErrBufferCapacityExceeded, got %v", err)
	}
	if len(h.dev.Draws()) != 0 {
		t.Fatalf("drew %d times after overrun", len(h.dev.Draws()))
	}
}

func TestSteerCamera(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{MaxFrames: 2})
	config.SetMouseSensitivity(0.5)
	h.fe.inputs = []Input{
		{Forward: 1, MouseDX: 10, MouseDY: 4, Width: 640, Height: 480, Focused: true},
		{Forward: 1, MouseDX: 10},
	}
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if h.cam.viewport != [2]int{640, 480} {
		t.Errorf("viewport: got %v", h.cam.viewport)
	}
	// the unfocused second frame must not steer
	if len(h.cam.rotations) != 1 || len(h.cam.moves) != 1 {
		t.Fatalf("rotations=%v moves=%v", h.cam.rotations, h.cam.moves)
	}
	if r := h.cam.rotations[0]; r != [2]float64{5, -2} {
		t.Errorf("rotation: got %v, want [5 -2]", r)
	}
	if m := h.cam.moves[0]; m.X() <= 0 || m.Y() != 0 || m.Z() != 0 {
		t.Errorf("move: got %v", m)
	}
}

func TestFPSLimiter(t *testing.T) {
	t.Cleanup(config.Default().Apply)

	config.SetFPSLimit(0)
	l := NewFPSLimiter()
	start := time.Now()
	l.Wait(false)
	if d := time.Since(start); d > 5*time.Millisecond {
		t.Errorf("unlimited wait took %v", d)
	}

	config.SetFPSLimit(100)
	l = NewFPSLimiter()
	start = time.Now()
	for i := 0; i < 3; i++ {
		l.Wait(false)
	}
	if d := time.Since(start); d < 25*time.Millisecond {
		t.Errorf("3 frames at 100 FPS took %v", d)
	}

	// unfocused frames are capped even when the limit is off
	config.SetFPSLimit(0)
	l = NewFPSLimiter()
	start = time.Now()
	l.Wait(true)
	if d := time.Since(start); d < 30*time.Millisecond {
		t.Errorf("unfocused wait took %v", d)
	}
}

func TestRunRemeshAll(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{MaxFrames: 2})
	h.fe.inputs = []Input{{Focused: true}, {Focused: true, RemeshAll: true}}
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	h.mesher.Wait()
	if got := h.mesher.Stats().Completed; got != 2 {
		t.Fatalf("completed meshes: got %d, want 2", got)
	}
}

func TestHeadlessFrontend(t *testing.T) {
	saved := config.Default()
	t.Cleanup(saved.Apply)
	config.SetFPSLimit(0)

	mesher := meshing.NewChunkMesher(meshing.Options{Workers: 1, Logger: quietLogger()})
	defer mesher.Close()
	dev := render.NewMemoryDevice()
	sys, err := render.NewWorldRenderSystem(dev, mesher, render.Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	app := NewApp(NewHeadlessFrontend(4), singleBlockWorld(), sys, &recordingCamera{}, Options{Logger: quietLogger()})
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if app.Frames() != 4 || len(dev.Draws()) != 4 {
		t.Fatalf("frames=%d draws=%d", app.Frames(), len(dev.Draws()))
	}
}

var errDeviceLost = errors.New("device lost")

// lostDevice accepts uploads but fails every draw.
type lostDevice struct {
	*render.MemoryDevice
}

func (lostDevice) DrawIndexed(render.DrawCall) error { return errDeviceLost }

// failingMesher reports one failed task per drain.
type failingMesher struct {
	seq uint64
}

func (m *failingMesher) BeginMeshingChunk(world.Neighborhood) uint64 {
	m.seq++
	return m.seq
}

func (m *failingMesher) ReadyChunkMeshes() []meshing.Result {
	origin := world.NewBlockPosition(0, 0, 0)
	return []meshing.Result{{
		Origin: origin,
		Seq:    m.seq,
		Err:    &meshing.TaskFailureError{Origin: origin, Attempts: 1, Cause: "boom"},
	}}
}

func (m *failingMesher) Closed() bool { return false }

func newApp(t *testing.T, dev render.Device, m render.Mesher, ropts render.Options, opts Options) *App {
	t.Helper()
	saved := config.Default()
	t.Cleanup(saved.Apply)
	config.SetFPSLimit(0)

	ropts.Logger = quietLogger()
	sys, err := render.NewWorldRenderSystem(dev, m, ropts)
	if err != nil {
		t.Fatalf("NewWorldRenderSystem: %v", err)
	}
	opts.Logger = quietLogger()
	return NewApp(NewHeadlessFrontend(0), singleBlockWorld(), sys, &recordingCamera{}, opts)
}

func TestRunFailsWhenDrawFails(t *testing.T) {
	mesher := meshing.NewChunkMesher(meshing.Options{Workers: 1, Logger: quietLogger()})
	t.Cleanup(mesher.Close)

	app := newApp(t, lostDevice{render.NewMemoryDevice()}, mesher, render.Options{}, Options{MaxFrames: 5})
	err := app.Run()
	if !errors.Is(err, errDeviceLost) {
		t.Fatalf("expected device error, got %v", err)
	}
	if app.Frames() != 1 {
		t.Fatalf("frames after failed draw: got %d, want 1", app.Frames())
	}
}

func TestRunContinuesPastStrictMeshingFailures(t *testing.T) {
	dev := render.NewMemoryDevice()
	app := newApp(t, dev, &failingMesher{}, render.Options{StrictMeshing: true}, Options{MaxFrames: 3})
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if app.Frames() != 3 || len(dev.Draws()) != 3 {
		t.Fatalf("frames=%d draws=%d", app.Frames(), len(dev.Draws()))
	}
}

func TestOnlyMeshingFailures(t *testing.T) {
	failure := &meshing.TaskFailureError{Attempts: 1, Cause: "boom"}
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"single failure", failure, true},
		{"joined failures", errors.Join(failure, failure), true},
		{"wrapped join", fmt.Errorf("frame: %w", errors.Join(failure)), true},
		{"wrapped join with device error", fmt.Errorf("frame: %w", errors.Join(failure, errDeviceLost)), false},
		{"device error joined in", errors.Join(failure, errDeviceLost), false},
		{"device error", fmt.Errorf("draw world: %w", errDeviceLost), false},
	}
	for _, c := range cases {
		if got := onlyMeshingFailures(c.err); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStopEndsRun(t *testing.T) {
	h := newHarness(t, singleBlockWorld(), render.Options{}, Options{})
	h.fe.onPoll = func(frame int) {
		if frame == 1 {
			h.app.Stop()
		}
	}
	if err := h.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.app.Frames() != 2 {
		t.Fatalf("frames: got %d, want 2", h.app.Frames())
	}
}
