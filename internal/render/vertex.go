package render

import (
	"encoding/binary"
	"math"

	"voxel-world/internal/meshing"
)

const (
	// FloatsPerVertex is position xyz followed by normal xyz.
	FloatsPerVertex = 6
	// VertexStride is the size of one encoded vertex in bytes.
	VertexStride = FloatsPerVertex * 4
	// IndexSize is the size of one encoded index in bytes.
	IndexSize = 4
)

// EncodeVertices appends the little-endian vertex stream of m to dst.
// Each vertex carries the normal of the quad it belongs to.
func EncodeVertices(dst []byte, m *meshing.Mesh) []byte {
	for i, v := range m.Vertices {
		n := m.Normals[i/4]
		for _, f := range [FloatsPerVertex]float32{v[0], v[1], v[2], n[0], n[1], n[2]} {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
	}
	return dst
}

// EncodeIndices appends the little-endian index stream of m to dst.
func EncodeIndices(dst []byte, m *meshing.Mesh) []byte {
	for _, idx := range m.Indices {
		dst = binary.LittleEndian.AppendUint32(dst, idx)
	}
	return dst
}
