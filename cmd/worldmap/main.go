// Command worldmap writes a top-down PNG of the configured world.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"slices"

	"voxel-world/internal/config"
	"voxel-world/internal/world"
	"voxel-world/internal/worldmap"

	"github.com/fatih/color"
)

var (
	configPath = flag.String("config", "", "YAML settings file")
	out        = flag.String("o", "worldmap.png", "output PNG path")
	scale      = flag.Int("scale", 4, "pixels per column")
	seed       = flag.Int64("seed", 0, "override the configured seed (0 = keep)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		color.Red("worldmap: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	var gen world.Generator = world.NewNoiseGenerator(cfg.World.Seed, cfg.World.BaseHeight)
	if cfg.World.Generator == config.GeneratorFlat {
		gen = world.FlatGenerator{Height: int32(cfg.World.BaseHeight)}
	}
	w := world.Generate(gen, world.GenerateOptions{Radius: int32(cfg.World.Radius), Height: int32(cfg.World.Height)})

	img, st := worldmap.Heightmap(w, worldmap.AreaAround(cfg.World.Radius))
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, worldmap.Scale(img, *scale)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", *out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	color.Green("wrote %s", *out)
	fmt.Printf("%s %s seed=%d chunks=%d\n", color.CyanString("world"), cfg.World.Generator, cfg.World.Seed, w.Len())
	fmt.Printf("%s %d..%d\n", color.CyanString("height"), st.MinHeight, st.MaxHeight)
	if st.Empty > 0 {
		color.Yellow("%d of %d columns have no ground", st.Empty, st.Columns)
	}

	types := make([]world.BlockType, 0, len(st.Surface))
	for t := range st.Surface {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		fmt.Printf("  %-8s %6d\n", t, st.Surface[t])
	}
	return nil
}
