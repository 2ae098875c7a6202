package world

import (
	"errors"
	"fmt"
)

// ErrNotWithinChunk is matched by every NotWithinChunkError.
var ErrNotWithinChunk = errors.New("position not within chunk")

// NotWithinChunkError reports a world position queried on a chunk that does not own it.
type NotWithinChunkError struct {
	Position BlockPosition
	Origin   BlockPosition
}

func (e *NotWithinChunkError) Error() string {
	return fmt.Sprintf("position %v not within chunk at %v", e.Position, e.Origin)
}

func (e *NotWithinChunkError) Unwrap() error {
	return ErrNotWithinChunk
}

// Chunk is a 16x16x16 block volume anchored at a chunk-aligned origin.
type Chunk struct {
	origin BlockPosition
	blocks [ChunkVolume]Block
	dirty  bool
}

// NewChunk creates an empty (all air) chunk. The origin is snapped to the chunk grid.
func NewChunk(origin BlockPosition) *Chunk {
	return &Chunk{
		origin: origin.ToChunkOrigin(),
		dirty:  true,
	}
}

// NewFilledChunk creates a chunk where every block is b.
func NewFilledChunk(origin BlockPosition, b Block) *Chunk {
	c := NewChunk(origin)
	for i := range c.blocks {
		c.blocks[i] = b
	}
	return c
}

// localIndex converts local coordinates → linear index (x fastest, then y, then z)
func localIndex(lx, ly, lz int) int {
	return lx + ly*ChunkWidth + lz*ChunkWidth*ChunkHeight
}

func inLocalBounds(lx, ly, lz int) bool {
	return lx >= 0 && lx < ChunkWidth && ly >= 0 && ly < ChunkHeight && lz >= 0 && lz < ChunkDepth
}

// Origin returns the chunk's minimum corner in world coordinates.
func (c *Chunk) Origin() BlockPosition {
	return c.origin
}

// Contains reports whether the world position belongs to this chunk.
func (c *Chunk) Contains(pos BlockPosition) bool {
	return pos.ToChunkOrigin() == c.origin
}

// GetBlockAtPosition returns the block at a world position.
// ok is false for air. A position outside the chunk yields a *NotWithinChunkError.
func (c *Chunk) GetBlockAtPosition(pos BlockPosition) (Block, bool, error) {
	if !c.Contains(pos) {
		return Block{}, false, &NotWithinChunkError{Position: pos, Origin: c.origin}
	}
	local := pos.ToChunkLocalPosition()
	b := c.blocks[localIndex(int(local.X), int(local.Y), int(local.Z))]
	if b.IsAir() {
		return Block{}, false, nil
	}
	return b, true, nil
}

// SetBlockAtPosition writes a block at a world position.
// The position is reduced to chunk-local coordinates without checking ownership;
// callers are expected to resolve the owning chunk first.
func (c *Chunk) SetBlockAtPosition(pos BlockPosition, b Block) {
	local := pos.ToChunkLocalPosition()
	c.SetBlockAtLocal(int(local.X), int(local.Y), int(local.Z), b)
}

// BlockAtLocal returns the block at local coordinates, air when out of bounds.
func (c *Chunk) BlockAtLocal(lx, ly, lz int) Block {
	if !inLocalBounds(lx, ly, lz) {
		return Block{}
	}
	return c.blocks[localIndex(lx, ly, lz)]
}

// SetBlockAtLocal writes a block at local coordinates; out of bounds writes are ignored.
func (c *Chunk) SetBlockAtLocal(lx, ly, lz int, b Block) {
	if !inLocalBounds(lx, ly, lz) {
		return
	}
	idx := localIndex(lx, ly, lz)
	if c.blocks[idx] != b {
		c.blocks[idx] = b
		c.dirty = true
	}
}

// LocalBlockPosition converts a linear index to local coordinates.
func LocalBlockPosition(index int) BlockPosition {
	lz := index / (ChunkWidth * ChunkHeight)
	rem := index - lz*ChunkWidth*ChunkHeight
	ly := rem / ChunkWidth
	lx := rem % ChunkWidth
	return BlockPosition{X: int32(lx), Y: int32(ly), Z: int32(lz)}
}

// WorldBlockPosition converts a linear index to a world position.
func (c *Chunk) WorldBlockPosition(index int) BlockPosition {
	return LocalBlockPosition(index).Add(c.origin)
}

// FaceBlocks returns the layer of blocks on the given face of the chunk,
// in BlockPositionRange order. Air entries are zero Blocks.
func (c *Chunk) FaceBlocks(d Direction) []Block {
	const (
		maxX = ChunkWidth - 1
		maxY = ChunkHeight - 1
		maxZ = ChunkDepth - 1
	)
	var start, end BlockPosition
	switch d {
	case North:
		start, end = c.origin.Offset(0, 0, maxZ), c.origin.Offset(maxX, maxY, maxZ)
	case South:
		start, end = c.origin, c.origin.Offset(maxX, maxY, 0)
	case East:
		start, end = c.origin, c.origin.Offset(0, maxY, maxZ)
	case West:
		start, end = c.origin.Offset(maxX, 0, 0), c.origin.Offset(maxX, maxY, maxZ)
	case Up:
		start, end = c.origin.Offset(0, maxY, 0), c.origin.Offset(maxX, maxY, maxZ)
	default:
		start, end = c.origin, c.origin.Offset(maxX, 0, maxZ)
	}

	r := NewBlockPositionRange(start, end)
	out := make([]Block, 0, r.Len())
	for p, ok := r.Next(); ok; p, ok = r.Next() {
		b, _, _ := c.GetBlockAtPosition(p)
		out = append(out, b)
	}
	return out
}

// SolidCount returns the number of non-air blocks.
func (c *Chunk) SolidCount() int {
	n := 0
	for i := range c.blocks {
		if !c.blocks[i].IsAir() {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the chunk contains only air.
func (c *Chunk) IsEmpty() bool {
	for i := range c.blocks {
		if !c.blocks[i].IsAir() {
			return false
		}
	}
	return true
}

// Snapshot returns an independent copy of the chunk.
func (c *Chunk) Snapshot() *Chunk {
	cp := *c
	return &cp
}

// IsDirty returns whether the chunk has been modified since it was last meshed
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// SetClean marks the chunk as clean (not modified)
func (c *Chunk) SetClean() {
	c.dirty = false
}

// MarkDirty flags the chunk for remeshing.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}
