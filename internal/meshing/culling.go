package meshing

import (
	"voxel-world/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// faceTemplate is the corner list and winding of one block face, relative to
// the block's minimum corner.
type faceTemplate struct {
	corners [4]mgl32.Vec3
	winding Winding
}

var faceTemplates = [world.DirectionCount]faceTemplate{
	world.North: {
		corners: [4]mgl32.Vec3{{1, 0, 1}, {0, 0, 1}, {0, 1, 1}, {1, 1, 1}},
		winding: Clockwise,
	},
	world.South: {
		corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		winding: Clockwise,
	},
	world.East: {
		corners: [4]mgl32.Vec3{{0, 0, 1}, {0, 0, 0}, {0, 1, 0}, {0, 1, 1}},
		winding: Clockwise,
	},
	world.West: {
		corners: [4]mgl32.Vec3{{1, 0, 0}, {1, 0, 1}, {1, 1, 1}, {1, 1, 0}},
		winding: Clockwise,
	},
	world.Up: {
		corners: [4]mgl32.Vec3{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
		winding: Clockwise,
	},
	world.Down: {
		corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		winding: CounterClockwise,
	},
}

// addFace emits the quad for face d of the block whose minimum corner is at base.
func addFace(m *Mesh, base mgl32.Vec3, d world.Direction) {
	t := &faceTemplates[d]
	var pts [4]mgl32.Vec3
	for i, c := range t.corners {
		pts[i] = c.Add(base)
	}
	m.AddQuad(pts, t.winding)
}

// MeshChunk builds the face-culled mesh of n.Center. A face is emitted when
// the adjacent block is air or lies in a neighbour chunk that was not supplied.
// Vertices are in world coordinates.
func MeshChunk(n world.Neighborhood) *Mesh {
	c := n.Center
	mesh := &Mesh{}
	if c == nil {
		return mesh
	}
	origin := c.Origin()

	for x := 0; x < world.ChunkWidth; x++ {
		for y := 0; y < world.ChunkHeight; y++ {
			for z := 0; z < world.ChunkDepth; z++ {
				if c.BlockAtLocal(x, y, z).IsAir() {
					continue
				}
				base := origin.Offset(int32(x), int32(y), int32(z)).Vec3()
				for _, d := range world.Directions {
					if solidNeighbor(&n, x, y, z, d) {
						continue
					}
					addFace(mesh, base, d)
				}
			}
		}
	}
	return mesh
}

// solidNeighbor resolves the block next to local (x, y, z) in direction d,
// crossing into the neighbour snapshot when the step leaves the chunk.
func solidNeighbor(n *world.Neighborhood, x, y, z int, d world.Direction) bool {
	off := d.Offset()
	nx, ny, nz := x+int(off.X), y+int(off.Y), z+int(off.Z)

	if nx >= 0 && nx < world.ChunkWidth && ny >= 0 && ny < world.ChunkHeight && nz >= 0 && nz < world.ChunkDepth {
		return !n.Center.BlockAtLocal(nx, ny, nz).IsAir()
	}

	adj := n.Neighbors[d]
	if adj == nil {
		return false
	}
	return !adj.BlockAtLocal(wrap(nx, world.ChunkWidth), wrap(ny, world.ChunkHeight), wrap(nz, world.ChunkDepth)).IsAir()
}

func wrap(v, size int) int {
	switch {
	case v < 0:
		return v + size
	case v >= size:
		return v - size
	default:
		return v
	}
}

// MeshChunkInWorld meshes a copy of the chunk at origin, querying the live
// world for every neighbour.
func MeshChunkInWorld(w *world.World, origin world.BlockPosition) (*Mesh, bool) {
	c, ok := w.Chunk(origin)
	if !ok {
		return nil, false
	}
	mesh := &Mesh{}
	for i := 0; i < world.ChunkVolume; i++ {
		pos := c.WorldBlockPosition(i)
		if _, solid, _ := c.GetBlockAtPosition(pos); !solid {
			continue
		}
		neighbors := w.GetNeighbors(pos)
		base := pos.Vec3()
		for _, nb := range neighbors {
			if nb.Present {
				continue
			}
			addFace(mesh, base, nb.Direction)
		}
	}
	return mesh, true
}
