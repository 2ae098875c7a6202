package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Chunk dimensions in blocks
	ChunkWidth  = 16
	ChunkHeight = 16
	ChunkDepth  = 16

	ChunkVolume = ChunkWidth * ChunkHeight * ChunkDepth
)

// BlockPosition is an integer position in world-block units.
// It is comparable and used directly as a map key.
type BlockPosition struct {
	X, Y, Z int32
}

// NewBlockPosition creates a BlockPosition
func NewBlockPosition(x, y, z int32) BlockPosition {
	return BlockPosition{X: x, Y: y, Z: z}
}

// Offset translates the position by the given delta.
func (p BlockPosition) Offset(dx, dy, dz int32) BlockPosition {
	return BlockPosition{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Add returns p + o componentwise
func (p BlockPosition) Add(o BlockPosition) BlockPosition {
	return BlockPosition{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Sub returns p - o componentwise
func (p BlockPosition) Sub(o BlockPosition) BlockPosition {
	return BlockPosition{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// ToChunkOrigin returns the minimum corner of the chunk containing p.
// Uses floor division so (-1,-1,-1) maps to (-16,-16,-16), not (0,0,0).
func (p BlockPosition) ToChunkOrigin() BlockPosition {
	return BlockPosition{
		X: p.X - floorMod(p.X, ChunkWidth),
		Y: p.Y - floorMod(p.Y, ChunkHeight),
		Z: p.Z - floorMod(p.Z, ChunkDepth),
	}
}

// ToChunkLocalPosition returns p relative to its chunk origin, each axis in [0, dim).
func (p BlockPosition) ToChunkLocalPosition() BlockPosition {
	return BlockPosition{
		X: floorMod(p.X, ChunkWidth),
		Y: floorMod(p.Y, ChunkHeight),
		Z: floorMod(p.Z, ChunkDepth),
	}
}

// Vec3 converts the position to a float vector (block minimum corner).
func (p BlockPosition) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

func (p BlockPosition) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Less orders positions by X, then Y, then Z.
func (p BlockPosition) Less(o BlockPosition) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}

// ComparePositions is a three-way comparison usable with slices.SortFunc.
func ComparePositions(a, b BlockPosition) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// floorMod returns a mod n in [0, n) for positive n.
func floorMod(a, n int32) int32 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
