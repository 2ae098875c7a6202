package meshing

import (
	"testing"

	"voxel-world/internal/world"
)

var stone = world.SolidBlock(world.BlockTypeStone)

func neighborhoodOf(c *world.Chunk) world.Neighborhood {
	return world.Neighborhood{Center: c}
}

func TestMeshIsolatedBlock(t *testing.T) {
	c := world.NewChunk(world.NewBlockPosition(0, 0, 0))
	c.SetBlockAtLocal(4, 5, 6, stone)

	m := MeshChunk(neighborhoodOf(c))
	if m.QuadCount() != 6 || m.VertexCount() != 24 || m.IndexCount() != 36 {
		t.Fatalf("isolated block: got q=%d v=%d i=%d, want 6/24/36", m.QuadCount(), m.VertexCount(), m.IndexCount())
	}
	for i, d := range world.Directions {
		if want := d.Offset().Vec3(); !m.Normals[i].ApproxEqual(want) {
			t.Errorf("%v normal: got %v, want %v", d, m.Normals[i], want)
		}
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestMeshAdjacentBlocks(t *testing.T) {
	c := world.NewChunk(world.NewBlockPosition(0, 0, 0))
	c.SetBlockAtLocal(4, 5, 6, stone)
	c.SetBlockAtLocal(5, 5, 6, stone)

	if got := MeshChunk(neighborhoodOf(c)).QuadCount(); got != 10 {
		t.Fatalf("two adjacent blocks: got %d quads, want 10", got)
	}
}

func TestMeshFullChunkWithCavity(t *testing.T) {
	c := world.NewFilledChunk(world.NewBlockPosition(-16, 0, 32), stone)
	c.SetBlockAtLocal(8, 8, 8, world.Block{})

	m := MeshChunk(neighborhoodOf(c))
	want := 6*world.ChunkWidth*world.ChunkHeight + 6
	if m.QuadCount() != want {
		t.Fatalf("filled chunk with cavity: got %d quads, want %d", m.QuadCount(), want)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestMeshCullsAcrossChunkBorder(t *testing.T) {
	a := world.NewFilledChunk(world.NewBlockPosition(0, 0, 0), stone)
	b := world.NewFilledChunk(world.NewBlockPosition(16, 0, 0), stone)

	n := world.Neighborhood{Center: a}
	n.Neighbors[world.West] = b

	face := world.ChunkWidth * world.ChunkHeight
	if got := MeshChunk(n).QuadCount(); got != 5*face {
		t.Fatalf("with west neighbour: got %d quads, want %d", got, 5*face)
	}

	// Air on the neighbour's border re-exposes exactly that face.
	b.SetBlockAtLocal(0, 3, 3, world.Block{})
	if got := MeshChunk(n).QuadCount(); got != 5*face+1 {
		t.Fatalf("with hole in neighbour: got %d quads, want %d", got, 5*face+1)
	}
}

func TestMeshVerticesInWorldSpace(t *testing.T) {
	origin := world.NewBlockPosition(-16, -16, -16)
	c := world.NewChunk(origin)
	c.SetBlockAtPosition(world.NewBlockPosition(-1, -1, -1), stone)

	m := MeshChunk(neighborhoodOf(c))
	for _, v := range m.Vertices {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < -1 || v[axis] > 0 {
				t.Fatalf("vertex %v outside block (-1,-1,-1)", v)
			}
		}
	}
}

func TestTrianglesFaceOutward(t *testing.T) {
	c := world.NewChunk(world.NewBlockPosition(0, 0, 0))
	c.SetBlockAtLocal(1, 1, 1, stone)
	m := MeshChunk(neighborhoodOf(c))

	for tri := 0; tri < len(m.Indices); tri += 3 {
		a, b, cc := m.Vertices[m.Indices[tri]], m.Vertices[m.Indices[tri+1]], m.Vertices[m.Indices[tri+2]]
		n := b.Sub(a).Cross(cc.Sub(a))
		if n.Dot(m.Normals[tri/6]) <= 0 {
			t.Fatalf("triangle %d is wound against its normal %v", tri/3, m.Normals[tri/6])
		}
	}
}

func TestMeshChunkInWorldMatches(t *testing.T) {
	w := world.NewWorld()
	a := world.NewFilledChunk(world.NewBlockPosition(0, 0, 0), stone)
	a.SetBlockAtLocal(0, 0, 0, world.Block{})
	w.AddChunk(a)
	w.AddChunk(world.NewFilledChunk(world.NewBlockPosition(0, 16, 0), stone))

	viaWorld, ok := MeshChunkInWorld(w, a.Origin())
	if !ok {
		t.Fatalf("chunk not found")
	}
	n, _ := w.Snapshot(a.Origin())
	viaSnapshot := MeshChunk(n)

	if viaWorld.QuadCount() != viaSnapshot.QuadCount() {
		t.Fatalf("quad counts differ: world=%d snapshot=%d", viaWorld.QuadCount(), viaSnapshot.QuadCount())
	}
	if _, ok := MeshChunkInWorld(w, world.NewBlockPosition(64, 0, 0)); ok {
		t.Fatalf("meshing an unloaded chunk succeeded")
	}
}

func BenchmarkMeshChunkNoise(b *testing.B) {
	gen := world.NewNoiseGenerator(123, 4)
	c := world.NewChunk(world.NewBlockPosition(0, 0, 0))
	gen.PopulateChunk(c)
	n := neighborhoodOf(c)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MeshChunk(n)
	}
}
