package main

import (
	"flag"
	"fmt"
	"os"

	"voxel-world/internal/camera"
	"voxel-world/internal/config"
	"voxel-world/internal/game"
	"voxel-world/internal/graphics"
	"voxel-world/internal/input"
	"voxel-world/internal/logging"
	"voxel-world/internal/meshing"
	"voxel-world/internal/render"
	"voxel-world/internal/world"

	"github.com/faiface/mainthread"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

var (
	configPath = flag.String("config", "", "YAML settings file")
	headless   = flag.Bool("headless", false, "run without a window against an in-memory device")
	frames     = flag.Int("frames", 0, "stop after this many frames (0 = until closed)")
	logLevel   = flag.String("log-level", "", "override the configured log level")
)

func main() {
	flag.Parse()

	// closer cleanups call into the main thread; close before Run returns
	mainthread.Run(func() {
		if err := run(); err != nil {
			closer.Fatalln(err)
		}
		closer.Close()
	})
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Apply()
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: os.Stderr})
	if err != nil {
		return err
	}

	w := generateWorld(cfg.World, log)

	mesher := meshing.NewChunkMesher(meshing.Options{
		Workers:      cfg.Meshing.Workers,
		MaxRetries:   cfg.Meshing.MaxRetries,
		RetryBackoff: cfg.Meshing.RetryBackoff,
		Logger:       log,
	})
	closer.Bind(func() {
		mesher.Close()
		st := mesher.Stats()
		log.WithFields(logrus.Fields{
			"completed": st.Completed,
			"failed":    st.Failed,
			"retries":   st.Retries,
		}).Info("chunk mesher stopped")
	})

	cam := camera.NewFlyCamera(cfg.Window.Width, cfg.Window.Height)
	cam.FOV = config.GetFOV()
	cam.Position = spawnPoint(w)
	cam.LookAt(cam.Position.Add(mgl32.Vec3{1, -0.4, 1}))

	device, frontend, err := openFrontend(cfg, log)
	if err != nil {
		return err
	}

	sys, err := render.NewWorldRenderSystem(device, mesher, render.Options{
		VertexBufferBytes: cfg.VertexBufferBytes(),
		IndexBufferBytes:  cfg.IndexBufferBytes(),
		StrictMeshing:     cfg.Render.StrictMeshing,
		Logger:            log,
	})
	if err != nil {
		return fmt.Errorf("world render system: %w", err)
	}

	app := game.NewApp(frontend, w, sys, cam, game.Options{
		MaxFrames: *frames,
		SlowFrame: cfg.Log.SlowFrame,
		Logger:    log,
	})

	// bound last so it runs first: the loop is out before GL state is deleted
	loopDone := make(chan struct{})
	defer close(loopDone)
	closer.Bind(func() {
		app.Stop()
		<-loopDone
	})
	return app.Run()
}

func generateWorld(cfg config.WorldConfig, log logrus.FieldLogger) *world.World {
	var gen world.Generator = world.NewNoiseGenerator(cfg.Seed, cfg.BaseHeight)
	if cfg.Generator == config.GeneratorFlat {
		gen = world.FlatGenerator{Height: int32(cfg.BaseHeight)}
	}
	w := world.Generate(gen, world.GenerateOptions{Radius: int32(cfg.Radius), Height: int32(cfg.Height)})
	log.WithFields(logrus.Fields{
		"generator": cfg.Generator,
		"seed":      cfg.Seed,
		"chunks":    w.Len(),
	}).Info("generated world")
	return w
}

// spawnPoint floats a few blocks above the ground at the world origin.
func spawnPoint(w *world.World) mgl32.Vec3 {
	y, _, ok := w.TopBlock(0, 0)
	if !ok {
		y = 0
	}
	return mgl32.Vec3{0.5, float32(y) + 8, 0.5}
}

// openFrontend returns the device and window to draw with. The windowed
// variant owns GL state on the main thread and registers its teardown.
func openFrontend(cfg *config.File, log logrus.FieldLogger) (render.Device, game.Frontend, error) {
	if *headless {
		log.Info("running headless")
		return render.NewMemoryDevice(), game.NewHeadlessFrontend(*frames), nil
	}

	var (
		window    *glfw.Window
		dev       *graphics.GLDevice
		crosshair *graphics.Crosshair
	)
	err := mainthread.CallErr(func() error {
		if err := glfw.Init(); err != nil {
			return fmt.Errorf("glfw init: %w", err)
		}
		var err error
		window, err = setupWindow(cfg.Window)
		if err != nil {
			glfw.Terminate()
			return fmt.Errorf("create window: %w", err)
		}
		dev, err = graphics.NewGLDevice()
		if err != nil {
			window.Destroy()
			glfw.Terminate()
			return fmt.Errorf("gl device: %w", err)
		}
		crosshair, err = graphics.NewCrosshair()
		if err != nil {
			dev.Delete()
			window.Destroy()
			glfw.Terminate()
			return fmt.Errorf("crosshair: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	closer.Bind(func() {
		mainthread.Call(func() {
			crosshair.Delete()
			dev.Delete()
			window.Destroy()
			glfw.Terminate()
		})
	})

	return mainThreadDevice{device: dev}, newWindowFrontend(window, input.NewInputManager(), crosshair), nil
}
