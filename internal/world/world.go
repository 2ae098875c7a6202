package world

import (
	"slices"
	"sync"
)

// BlockStatus distinguishes air from positions whose chunk is not loaded.
type BlockStatus int

const (
	StatusUnloaded BlockStatus = iota
	StatusAir
	StatusSolid
)

func (s BlockStatus) String() string {
	switch s {
	case StatusAir:
		return "air"
	case StatusSolid:
		return "solid"
	default:
		return "unloaded"
	}
}

// Neighbor is one entry of World.GetNeighbors.
type Neighbor struct {
	Direction Direction
	Block     Block
	Present   bool // false for air and for unloaded chunks
}

// Neighbors holds up to six adjacent chunks indexed by Direction; nil means not loaded.
type Neighbors [DirectionCount]*Chunk

// Neighborhood is a chunk together with its axis-adjacent chunks.
type Neighborhood struct {
	Center    *Chunk
	Neighbors Neighbors
}

// World is a sparse map of chunks keyed by chunk origin.
type World struct {
	chunks map[BlockPosition]*Chunk
	mu     sync.RWMutex
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		chunks: make(map[BlockPosition]*Chunk),
	}
}

// AddChunk stores a chunk under its own origin, replacing any previous chunk there.
func (w *World) AddChunk(c *Chunk) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks[c.Origin()] = c
}

// RemoveChunk drops the chunk at origin. Returns false if none was loaded.
func (w *World) RemoveChunk(origin BlockPosition) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[origin]; !ok {
		return false
	}
	delete(w.chunks, origin)
	return true
}

// Chunk returns a copy of the chunk stored at a chunk origin.
// Writes go through SetBlockAtPosition.
func (w *World) Chunk(origin BlockPosition) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[origin]
	if !ok {
		return nil, false
	}
	return c.Snapshot(), true
}

// ChunkAt returns a copy of the chunk owning a world position.
func (w *World) ChunkAt(pos BlockPosition) (*Chunk, bool) {
	return w.Chunk(pos.ToChunkOrigin())
}

// Len returns the number of loaded chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// ChunkOrigins returns the origins of all loaded chunks in sorted order.
func (w *World) ChunkOrigins() []BlockPosition {
	w.mu.RLock()
	origins := make([]BlockPosition, 0, len(w.chunks))
	for o := range w.chunks {
		origins = append(origins, o)
	}
	w.mu.RUnlock()
	slices.SortFunc(origins, ComparePositions)
	return origins
}

// GetBlockAtPosition returns the block at a world position.
// An unloaded chunk and an air block both report ok == false.
func (w *World) GetBlockAtPosition(pos BlockPosition) (Block, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.blockAtLocked(pos)
}

func (w *World) blockAtLocked(pos BlockPosition) (Block, bool) {
	c, ok := w.chunks[pos.ToChunkOrigin()]
	if !ok {
		return Block{}, false
	}
	b, ok, err := c.GetBlockAtPosition(pos)
	if err != nil {
		return Block{}, false
	}
	return b, ok
}

// Lookup reports whether a position is solid, air, or in an unloaded chunk.
func (w *World) Lookup(pos BlockPosition) BlockStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[pos.ToChunkOrigin()]
	if !ok {
		return StatusUnloaded
	}
	if _, solid, _ := c.GetBlockAtPosition(pos); solid {
		return StatusSolid
	}
	return StatusAir
}

// GetNeighbors returns the six blocks adjacent to pos, always in Directions order.
func (w *World) GetNeighbors(pos BlockPosition) [DirectionCount]Neighbor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out [DirectionCount]Neighbor
	for _, d := range Directions {
		b, ok := w.blockAtLocked(pos.Add(d.Offset()))
		out[d] = Neighbor{Direction: d, Block: b, Present: ok}
	}
	return out
}

// SetBlockAtPosition writes a block, creating the owning chunk if needed.
// Chunks sharing the touched border are marked dirty.
func (w *World) SetBlockAtPosition(pos BlockPosition, b Block) {
	w.mu.Lock()
	defer w.mu.Unlock()

	origin := pos.ToChunkOrigin()
	c, ok := w.chunks[origin]
	if !ok {
		if b.IsAir() {
			return
		}
		c = NewChunk(origin)
		w.chunks[origin] = c
	}
	c.SetBlockAtPosition(pos, b)

	local := pos.ToChunkLocalPosition()
	mark := func(d Direction) {
		if nb, ok := w.chunks[origin.Add(chunkStep(d))]; ok {
			nb.MarkDirty()
		}
	}
	if local.X == 0 {
		mark(East)
	} else if local.X == ChunkWidth-1 {
		mark(West)
	}
	if local.Y == 0 {
		mark(Down)
	} else if local.Y == ChunkHeight-1 {
		mark(Up)
	}
	if local.Z == 0 {
		mark(South)
	} else if local.Z == ChunkDepth-1 {
		mark(North)
	}
}

// NeighborOrigin returns the origin of the chunk adjacent to origin in direction d.
func NeighborOrigin(origin BlockPosition, d Direction) BlockPosition {
	return origin.Add(chunkStep(d))
}

func chunkStep(d Direction) BlockPosition {
	o := d.Offset()
	return BlockPosition{X: o.X * ChunkWidth, Y: o.Y * ChunkHeight, Z: o.Z * ChunkDepth}
}

// Snapshot deep-copies the chunk at origin and its loaded axis neighbours.
// The copies are safe to read while the world keeps changing.
func (w *World) Snapshot(origin BlockPosition) (Neighborhood, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked(origin)
}

func (w *World) snapshotLocked(origin BlockPosition) (Neighborhood, bool) {
	c, ok := w.chunks[origin]
	if !ok {
		return Neighborhood{}, false
	}
	n := Neighborhood{Center: c.Snapshot()}
	for _, d := range Directions {
		if nb, ok := w.chunks[NeighborOrigin(origin, d)]; ok {
			n.Neighbors[d] = nb.Snapshot()
		}
	}
	return n, true
}

// SnapshotClean is Snapshot that also clears the chunk's dirty flag under
// the same lock.
func (w *World) SnapshotClean(origin BlockPosition) (Neighborhood, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.snapshotLocked(origin)
	if ok {
		w.chunks[origin].SetClean()
	}
	return n, ok
}

// DirtyOrigins returns the sorted origins of chunks modified since they were last marked clean.
func (w *World) DirtyOrigins() []BlockPosition {
	w.mu.RLock()
	var out []BlockPosition
	for o, c := range w.chunks {
		if c.IsDirty() {
			out = append(out, o)
		}
	}
	w.mu.RUnlock()
	slices.SortFunc(out, ComparePositions)
	return out
}

// MarkClean clears the dirty flag of the chunk at origin.
func (w *World) MarkClean(origin BlockPosition) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.chunks[origin]; ok {
		c.SetClean()
	}
}

// TopBlock returns the highest solid block of the column at x, z.
func (w *World) TopBlock(x, z int32) (int32, Block, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	column := BlockPosition{X: x, Z: z}.ToChunkOrigin()
	var layers []int32
	for o := range w.chunks {
		if o.X == column.X && o.Z == column.Z {
			layers = append(layers, o.Y)
		}
	}
	slices.Sort(layers)
	for i := len(layers) - 1; i >= 0; i-- {
		for y := layers[i] + ChunkHeight - 1; y >= layers[i]; y-- {
			if b, ok := w.blockAtLocked(BlockPosition{X: x, Y: y, Z: z}); ok && b.IsSolid() {
				return y, b, true
			}
		}
	}
	return 0, Block{}, false
}
