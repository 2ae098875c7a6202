package worldmap

import (
	"testing"

	"voxel-world/internal/world"
)

func TestHeightmapFlat(t *testing.T) {
	w := world.Generate(world.FlatGenerator{Height: 4}, world.GenerateOptions{Radius: 0, Height: 1})
	img, st := Heightmap(w, AreaAround(0))

	if img.Bounds().Dx() != world.ChunkWidth || img.Bounds().Dy() != world.ChunkDepth {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	if st.Columns != 256 || st.Empty != 0 {
		t.Fatalf("columns=%d empty=%d", st.Columns, st.Empty)
	}
	if st.MinHeight != 4 || st.MaxHeight != 4 || st.Surface[world.BlockTypeGrass] != 256 {
		t.Fatalf("stats: %+v", st)
	}
	// flat ground sits at the low end of the shading ramp
	if got, want := img.RGBAAt(3, 3), shade(palette[world.BlockTypeGrass], 0.6); got != want {
		t.Fatalf("pixel: got %v, want %v", got, want)
	}
}

func TestHeightmapEmptyColumns(t *testing.T) {
	w := world.NewWorld()
	w.SetBlockAtPosition(world.NewBlockPosition(0, 10, 0), world.SolidBlock(world.BlockTypeStone))
	img, st := Heightmap(w, Area{MinX: 0, MinZ: 0, Size: 2})
	if st.Columns != 4 || st.Empty != 3 {
		t.Fatalf("columns=%d empty=%d", st.Columns, st.Empty)
	}
	if img.RGBAAt(1, 1) != voidColor {
		t.Fatalf("empty column pixel: got %v", img.RGBAAt(1, 1))
	}
	if st.MinHeight != 10 || st.MaxHeight != 10 {
		t.Fatalf("heights: %d..%d", st.MinHeight, st.MaxHeight)
	}
}

func TestScale(t *testing.T) {
	w := world.Generate(world.FlatGenerator{Height: 1}, world.GenerateOptions{Radius: 0, Height: 1})
	img, _ := Heightmap(w, AreaAround(0))
	big := Scale(img, 3)
	if big.Bounds().Dx() != 48 || big.Bounds().Dy() != 48 {
		t.Fatalf("bounds: got %v", big.Bounds())
	}
	if big.RGBAAt(47, 47) != img.RGBAAt(15, 15) {
		t.Fatalf("corner pixel: got %v, want %v", big.RGBAAt(47, 47), img.RGBAAt(15, 15))
	}
	if Scale(img, 1).Bounds() != img.Bounds() {
		t.Fatalf("factor 1 changed the size")
	}
}
