// Package worldmap renders a top-down image of a generated world.
package worldmap

import (
	"image"
	"image/color"

	"voxel-world/internal/world"

	"golang.org/x/image/draw"
)

var palette = map[world.BlockType]color.RGBA{
	world.BlockTypeGrass:   {R: 0x5d, G: 0x9b, B: 0x3a, A: 0xff},
	world.BlockTypeDirt:    {R: 0x86, G: 0x60, B: 0x43, A: 0xff},
	world.BlockTypeStone:   {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	world.BlockTypeBedrock: {R: 0x30, G: 0x30, B: 0x30, A: 0xff},
}

var (
	unknownColor = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	voidColor    = color.RGBA{A: 0xff}
)

// Stats summarises the columns of a rendered area.
type Stats struct {
	Columns   int
	Empty     int
	MinHeight int32
	MaxHeight int32
	Surface   map[world.BlockType]int
}

// Area is a square of columns starting at (MinX, MinZ).
type Area struct {
	MinX, MinZ int32
	Size       int
}

// AreaAround covers every loaded chunk column within radius chunks of the origin.
func AreaAround(radius int) Area {
	r := int32(radius)
	return Area{
		MinX: -r * world.ChunkWidth,
		MinZ: -r * world.ChunkDepth,
		Size: (2*radius + 1) * world.ChunkWidth,
	}
}

// Heightmap draws one pixel per column, coloured by its top block and
// shaded by height. Columns with no ground are black.
func Heightmap(w *world.World, a Area) (*image.RGBA, Stats) {
	img := image.NewRGBA(image.Rect(0, 0, a.Size, a.Size))
	st := Stats{Surface: make(map[world.BlockType]int)}

	type column struct {
		y int32
		b world.Block
	}
	cols := make([]column, 0, a.Size*a.Size)
	for dz := 0; dz < a.Size; dz++ {
		for dx := 0; dx < a.Size; dx++ {
			y, b, ok := w.TopBlock(a.MinX+int32(dx), a.MinZ+int32(dz))
			st.Columns++
			if !ok {
				st.Empty++
				cols = append(cols, column{y: -1})
				continue
			}
			if st.Columns-st.Empty == 1 || y < st.MinHeight {
				st.MinHeight = y
			}
			st.MaxHeight = max(st.MaxHeight, y)
			st.Surface[b.Type]++
			cols = append(cols, column{y: y, b: b})
		}
	}

	span := float32(max(st.MaxHeight-st.MinHeight, 1))
	for i, c := range cols {
		x, z := i%a.Size, i/a.Size
		if c.y < 0 {
			img.SetRGBA(x, z, voidColor)
			continue
		}
		base, ok := palette[c.b.Type]
		if !ok {
			base = unknownColor
		}
		// lowest ground at 60% brightness, highest at 100%
		img.SetRGBA(x, z, shade(base, 0.6+0.4*float32(c.y-st.MinHeight)/span))
	}
	return img, st
}

func shade(c color.RGBA, f float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * f),
		G: uint8(float32(c.G) * f),
		B: uint8(float32(c.B) * f),
		A: c.A,
	}
}

// Scale enlarges img by an integer factor without smoothing block edges.
func Scale(img image.Image, factor int) *image.RGBA {
	if factor <= 1 {
		b := img.Bounds()
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
