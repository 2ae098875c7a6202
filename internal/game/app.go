package game

import (
	"errors"
	"fmt"
	"time"

	"voxel-world/internal/config"
	"voxel-world/internal/meshing"
	"voxel-world/internal/profiling"
	"voxel-world/internal/render"
	"voxel-world/internal/world"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Input is the per-frame state read from the frontend.
type Input struct {
	// Movement axes in [-1, 1].
	Forward, Right, Up float32
	// Cursor movement since the previous poll, in pixels.
	MouseDX, MouseDY float64
	// Framebuffer size; zero when unchanged.
	Width, Height int
	Focused       bool
	Sprint        bool
	// RemeshAll redispatches every loaded chunk.
	RemeshAll bool
}

// Frontend is the window the app draws into.
type Frontend interface {
	ShouldClose() bool
	PollEvents() Input
	BeginFrame()
	EndFrame()
}

// Camera is the view the app steers and hands to the render system.
type Camera interface {
	render.Camera
	Move(forward, right, up float32)
	Rotate(dyaw, dpitch float64)
	SetViewport(width, height int)
}

type Options struct {
	// SprintFactor multiplies the fly speed while sprinting; defaults to 4.
	SprintFactor float32
	// MaxFrames stops Run after that many frames; 0 runs until the frontend closes.
	MaxFrames int
	// SlowFrame logs frames whose processing exceeds it; 0 disables the report.
	SlowFrame time.Duration
	Logger    logrus.FieldLogger
}

// App owns the frame loop: input, camera, remeshing of edited chunks and
// the single world draw per frame.
type App struct {
	frontend Frontend
	world    *world.World
	system   *render.WorldRenderSystem
	camera   Camera
	opts     Options
	log      logrus.FieldLogger

	fpsLimiter *FPSLimiter
	lastTime   time.Time
	frames     int
	stopped    atomic.Bool
}

func NewApp(fe Frontend, w *world.World, sys *render.WorldRenderSystem, cam Camera, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.SprintFactor <= 0 {
		opts.SprintFactor = 4
	}
	return &App{
		frontend:   fe,
		world:      w,
		system:     sys,
		camera:     cam,
		opts:       opts,
		log:        opts.Logger.WithField("component", "app"),
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
	}
}

// Run ticks until the frontend closes, Stop is called, MaxFrames is reached
// or a frame fails. Meshing task failures reported in strict mode are logged
// and never stop the loop.
func (a *App) Run() error {
	if err := a.system.BuildChunkMeshes(a.world); err != nil {
		return fmt.Errorf("initial meshing: %w", err)
	}
	for !a.stopped.Load() && !a.frontend.ShouldClose() {
		if a.opts.MaxFrames > 0 && a.frames >= a.opts.MaxFrames {
			break
		}
		if err := a.tick(); err != nil {
			return err
		}
	}
	a.log.WithField("frames", a.frames).Info("frame loop stopped")
	return nil
}

// Stop makes Run return after the frame in progress. Safe to call from any goroutine.
func (a *App) Stop() { a.stopped.Store(true) }

// Frames is the number of completed ticks.
func (a *App) Frames() int { return a.frames }

func (a *App) tick() error {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := float32(startTick.Sub(a.lastTime).Seconds())
	a.lastTime = startTick

	in := a.frontend.PollEvents()
	a.steer(in, dt)

	if in.RemeshAll {
		if err := a.system.BuildChunkMeshes(a.world); err != nil {
			return fmt.Errorf("remesh all: %w", err)
		}
		a.log.WithField("chunks", a.world.Len()).Info("remeshing every chunk")
	}
	if n, err := a.system.RemeshDirty(a.world); err != nil {
		return fmt.Errorf("remesh: %w", err)
	} else if n > 0 {
		a.log.WithField("chunks", n).Debug("remeshing edited chunks")
	}

	a.frontend.BeginFrame()
	err := a.system.RenderWorld(a.camera)
	a.frontend.EndFrame()
	a.frames++

	if err != nil {
		if !onlyMeshingFailures(err) {
			return fmt.Errorf("frame %d: %w", a.frames, err)
		}
		a.log.WithError(err).Warn("frame reported meshing failures")
	}

	if d := time.Since(startTick); a.opts.SlowFrame > 0 && d > a.opts.SlowFrame {
		a.log.WithFields(logrus.Fields{
			"duration": d,
			"top":      profiling.TopN(5),
		}).Warn("slow frame")
	}

	a.fpsLimiter.Wait(!in.Focused)
	return nil
}

func (a *App) steer(in Input, dt float32) {
	if in.Width > 0 && in.Height > 0 {
		a.camera.SetViewport(in.Width, in.Height)
	}
	if !in.Focused {
		return
	}
	sens := config.GetMouseSensitivity()
	if in.MouseDX != 0 || in.MouseDY != 0 {
		a.camera.Rotate(in.MouseDX*sens, -in.MouseDY*sens)
	}
	step := config.GetFlySpeed() * dt
	if in.Sprint {
		step *= a.opts.SprintFactor
	}
	if in.Forward != 0 || in.Right != 0 || in.Up != 0 {
		a.camera.Move(in.Forward*step, in.Right*step, in.Up*step)
	}
}

// onlyMeshingFailures reports whether err, and every error joined or wrapped
// into it, is a meshing task failure.
func onlyMeshingFailures(err error) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *meshing.TaskFailureError:
		return true
	case interface{ Unwrap() []error }:
		errs := e.Unwrap()
		for _, inner := range errs {
			if !onlyMeshingFailures(inner) {
				return false
			}
		}
		return len(errs) > 0
	case interface{ Unwrap() error }:
		return onlyMeshingFailures(e.Unwrap())
	}
	return errors.Is(err, meshing.ErrMeshingTaskFailed)
}
