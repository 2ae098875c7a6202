package meshing

import (
	"fmt"
	"slices"

	"voxel-world/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Winding selects the index order used for a quad's two triangles.
type Winding int

const (
	Clockwise Winding = iota
	CounterClockwise
)

func (w Winding) String() string {
	if w == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

var (
	clockwiseIndices        = [6]uint32{2, 1, 0, 0, 3, 2}
	counterClockwiseIndices = [6]uint32{0, 1, 2, 0, 2, 3}
)

// Mesh is an indexed triangle mesh made of quads.
// Every quad contributes 4 vertices, 1 normal and 6 indices.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3 // one per quad
	Indices  []uint32
}

// NewMesh creates a mesh with room for quads quads.
func NewMesh(quads int) *Mesh {
	return &Mesh{
		Vertices: make([]mgl32.Vec3, 0, quads*4),
		Normals:  make([]mgl32.Vec3, 0, quads),
		Indices:  make([]uint32, 0, quads*6),
	}
}

// AddQuad appends a quad. Indices are relative to the vertices already in the mesh.
func (m *Mesh) AddQuad(points [4]mgl32.Vec3, winding Winding) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, points[:]...)
	m.Normals = append(m.Normals, quadNormal(points, winding))

	pattern := clockwiseIndices
	if winding == CounterClockwise {
		pattern = counterClockwiseIndices
	}
	for _, i := range pattern {
		m.Indices = append(m.Indices, base+i)
	}
}

// quadNormal returns the unit normal on the visible side of the quad.
func quadNormal(p [4]mgl32.Vec3, winding Winding) mgl32.Vec3 {
	a, b := p[1].Sub(p[0]), p[2].Sub(p[0])
	var n mgl32.Vec3
	if winding == CounterClockwise {
		n = a.Cross(b)
	} else {
		n = b.Cross(a)
	}
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// Stitch appends other to m, rebasing other's indices past m's existing vertices.
func (m *Mesh) Stitch(other *Mesh) {
	if other == nil || len(other.Vertices) == 0 {
		return
	}
	base := uint32(len(m.Vertices))

	m.Vertices = slices.Grow(m.Vertices, len(other.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Normals = slices.Grow(m.Normals, len(other.Normals))
	m.Normals = append(m.Normals, other.Normals...)

	m.Indices = slices.Grow(m.Indices, len(other.Indices))
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

func (m *Mesh) QuadCount() int   { return len(m.Normals) }
func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) IndexCount() int  { return len(m.Indices) }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// Reset truncates the mesh and keeps its backing arrays.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: slices.Clone(m.Vertices),
		Normals:  slices.Clone(m.Normals),
		Indices:  slices.Clone(m.Indices),
	}
}

// Validate checks the quad-mesh invariants.
func (m *Mesh) Validate() error {
	if len(m.Indices)%6 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 6", len(m.Indices))
	}
	if len(m.Vertices) != 4*len(m.Normals) {
		return fmt.Errorf("%d vertices for %d normals", len(m.Vertices), len(m.Normals))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Span locates one source mesh inside a StitchedMesh.
type Span struct {
	Origin      world.BlockPosition
	FirstVertex int
	VertexCount int
	FirstIndex  int
	IndexCount  int
}

// StitchedMesh concatenates many chunk meshes into one and remembers where each landed.
type StitchedMesh struct {
	Mesh
	spans []Span
}

// Add stitches mesh onto the end and records its span.
func (s *StitchedMesh) Add(origin world.BlockPosition, mesh *Mesh) {
	if mesh.IsEmpty() {
		return
	}
	s.spans = append(s.spans, Span{
		Origin:      origin,
		FirstVertex: len(s.Vertices),
		VertexCount: len(mesh.Vertices),
		FirstIndex:  len(s.Indices),
		IndexCount:  len(mesh.Indices),
	})
	s.Stitch(mesh)
}

// Spans returns the recorded spans in insertion order.
func (s *StitchedMesh) Spans() []Span {
	return s.spans
}

// Reset empties the stitched mesh for a rebuild.
func (s *StitchedMesh) Reset() {
	s.Mesh.Reset()
	s.spans = s.spans[:0]
}
