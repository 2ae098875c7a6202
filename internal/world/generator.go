package world

import (
	"math"
)

// Generator fills freshly created chunks with terrain.
type Generator interface {
	PopulateChunk(c *Chunk)
}

// FlatGenerator produces flat terrain: bedrock at y=0 and grass at y=Height.
// A negative Height yields nothing.
type FlatGenerator struct {
	Height int32
}

// PopulateChunk implements Generator.
func (g FlatGenerator) PopulateChunk(c *Chunk) {
	for lz := 0; lz < ChunkDepth; lz++ {
		for lx := 0; lx < ChunkWidth; lx++ {
			fillColumn(c, lx, lz, g.Height)
		}
	}
}

// NoiseGenerator builds a rolling heightmap from octave value noise.
type NoiseGenerator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewNoiseGenerator creates a noise generator with default shape parameters.
func NewNoiseGenerator(seed int64, baseHeight int) *NoiseGenerator {
	return &NoiseGenerator{
		seed:        seed,
		scale:       1.0 / 64.0,
		baseHeight:  baseHeight,
		amp:         24,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
	}
}

// HeightAt computes world surface height (block Y) at world X,Z.
func (g *NoiseGenerator) HeightAt(worldX, worldZ int32) int32 {
	x := float64(worldX) * g.scale
	z := float64(worldZ) * g.scale
	n := octaveNoise2D(x, z, g.seed, g.octaves, g.persistence, g.lacunarity)
	height := float64(g.baseHeight) + n*g.amp
	if height < 0 {
		height = 0
	}
	return int32(math.Floor(height))
}

// PopulateChunk implements Generator.
func (g *NoiseGenerator) PopulateChunk(c *Chunk) {
	origin := c.Origin()
	for lz := 0; lz < ChunkDepth; lz++ {
		for lx := 0; lx < ChunkWidth; lx++ {
			top := g.HeightAt(origin.X+int32(lx), origin.Z+int32(lz))
			fillColumn(c, lx, lz, top)
		}
	}
}

// fillColumn fills local column (lx, lz) from world y=0 up to and including worldTop.
func fillColumn(c *Chunk, lx, lz int, worldTop int32) {
	baseY := c.Origin().Y
	for ly := 0; ly < ChunkHeight; ly++ {
		y := baseY + int32(ly)
		if y < 0 || y > worldTop {
			continue
		}
		var t BlockType
		switch {
		case y == 0:
			t = BlockTypeBedrock
		case y == worldTop:
			t = BlockTypeGrass
		case y >= worldTop-3:
			t = BlockTypeDirt
		default:
			t = BlockTypeStone
		}
		c.SetBlockAtLocal(lx, ly, lz, SolidBlock(t))
	}
}

// GenerateOptions bounds the volume produced by Generate, in chunks.
type GenerateOptions struct {
	Radius int32 // chunks in each horizontal direction from the origin chunk
	Height int32 // vertical chunk layers starting at y=0
}

// Generate creates a world of (2*Radius+1)^2 * Height chunk slots and populates
// each with gen. Chunks that end up all air are not stored.
func Generate(gen Generator, opts GenerateOptions) *World {
	w := NewWorld()
	if opts.Radius < 0 || opts.Height <= 0 {
		return w
	}
	for cy := int32(0); cy < opts.Height; cy++ {
		for cz := -opts.Radius; cz <= opts.Radius; cz++ {
			for cx := -opts.Radius; cx <= opts.Radius; cx++ {
				c := NewChunk(BlockPosition{X: cx * ChunkWidth, Y: cy * ChunkHeight, Z: cz * ChunkDepth})
				gen.PopulateChunk(c)
				if c.IsEmpty() {
					continue
				}
				w.AddChunk(c)
			}
		}
	}
	return w
}
