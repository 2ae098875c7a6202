package render

import (
	"errors"
	"fmt"
	"slices"

	"voxel-world/internal/meshing"
	"voxel-world/internal/profiling"
	"voxel-world/internal/world"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultVertexBufferBytes holds roughly 2M vertices.
	DefaultVertexBufferBytes = 48 << 20
	// DefaultIndexBufferBytes holds 3M indices (the matching 500k quads).
	DefaultIndexBufferBytes = 12 << 20
)

// Mesher is the part of meshing.ChunkMesher the render system drives.
type Mesher interface {
	BeginMeshingChunk(n world.Neighborhood) uint64
	ReadyChunkMeshes() []meshing.Result
	Closed() bool
}

// Options configures a WorldRenderSystem.
type Options struct {
	VertexBufferBytes int
	IndexBufferBytes  int
	// StrictMeshing makes RenderWorld return failed meshing results instead
	// of only logging them.
	StrictMeshing bool
	Logger        logrus.FieldLogger
}

// WorldRenderSystem keeps the latest mesh of every chunk and draws all of
// them as one merged vertex/index buffer pair.
type WorldRenderSystem struct {
	device Device
	mesher Mesher
	opts   Options
	log    logrus.FieldLogger

	vertices *StagedBuffer
	indices  *StagedBuffer

	cache      map[world.BlockPosition]*meshing.Mesh
	latest     map[world.BlockPosition]uint64 // newest accepted sequence per origin
	highestSeq uint64

	stitched    meshing.StitchedMesh
	vertexBytes []byte
	indexBytes  []byte
	indexCount  int
	dirty       bool

	meshFailures int
	staleDropped int
}

// NewWorldRenderSystem allocates the merged buffers on device.
func NewWorldRenderSystem(device Device, mesher Mesher, opts Options) (*WorldRenderSystem, error) {
	if opts.VertexBufferBytes <= 0 {
		opts.VertexBufferBytes = DefaultVertexBufferBytes
	}
	if opts.IndexBufferBytes <= 0 {
		opts.IndexBufferBytes = DefaultIndexBufferBytes
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	vb, err := NewStagedBuffer(device, VertexBuffer, opts.VertexBufferBytes)
	if err != nil {
		return nil, err
	}
	ib, err := NewStagedBuffer(device, IndexBuffer, opts.IndexBufferBytes)
	if err != nil {
		return nil, err
	}

	return &WorldRenderSystem{
		device:   device,
		mesher:   mesher,
		opts:     opts,
		log:      opts.Logger.WithField("component", "world_render"),
		vertices: vb,
		indices:  ib,
		cache:    make(map[world.BlockPosition]*meshing.Mesh),
		latest:   make(map[world.BlockPosition]uint64),
	}, nil
}

// BuildChunkMeshes dispatches every loaded chunk of w for meshing.
func (s *WorldRenderSystem) BuildChunkMeshes(w *world.World) error {
	defer profiling.Track("render.BuildChunkMeshes")()
	if s.mesher.Closed() {
		return ErrMesherClosed
	}
	origins := w.ChunkOrigins()
	for _, o := range origins {
		if err := s.RemeshChunk(w, o); err != nil {
			return err
		}
	}
	s.log.WithField("chunks", len(origins)).Debug("dispatched chunk meshes")
	return nil
}

// RemeshChunk snapshots one chunk with its neighbours, marks it clean and
// dispatches it. A chunk that is gone or all air is dropped from the cache instead.
func (s *WorldRenderSystem) RemeshChunk(w *world.World, origin world.BlockPosition) error {
	if s.mesher.Closed() {
		return ErrMesherClosed
	}
	n, ok := w.SnapshotClean(origin)
	if !ok || n.Center.IsEmpty() {
		s.ForgetChunk(origin)
		return nil
	}
	seq := s.mesher.BeginMeshingChunk(n)
	if seq == 0 {
		return ErrMesherClosed
	}
	s.latest[origin] = seq
	s.highestSeq = max(s.highestSeq, seq)
	return nil
}

// RemeshDirty dispatches every dirty chunk of w.
// Returns the number of chunks dispatched.
func (s *WorldRenderSystem) RemeshDirty(w *world.World) (int, error) {
	dirty := w.DirtyOrigins()
	for _, o := range dirty {
		if err := s.RemeshChunk(w, o); err != nil {
			return 0, err
		}
	}
	return len(dirty), nil
}

// ForgetChunk removes the cached mesh for origin. Results of meshing tasks
// already in flight for it are discarded when they arrive.
func (s *WorldRenderSystem) ForgetChunk(origin world.BlockPosition) {
	s.latest[origin] = s.highestSeq + 1
	if _, ok := s.cache[origin]; ok {
		delete(s.cache, origin)
		s.dirty = true
	}
}

// RenderWorld collects finished meshes, rebuilds and uploads the merged
// buffers when anything changed, and issues the frame's draw.
func (s *WorldRenderSystem) RenderWorld(cam Camera) error {
	defer profiling.Track("render.RenderWorld")()

	failures := s.applyResults()

	if s.dirty {
		if err := s.rebuild(); err != nil {
			return err
		}
	}

	call := DrawCall{
		Vertices:   s.vertices.Handle(),
		Indices:    s.indices.Handle(),
		IndexCount: s.indexCount,
		View:       cam.View(),
		Projection: cam.Projection(),
	}
	if err := s.device.DrawIndexed(call); err != nil {
		return fmt.Errorf("draw world: %w", err)
	}

	if s.opts.StrictMeshing && len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}

// applyResults drains the mesher into the cache and returns failed results.
func (s *WorldRenderSystem) applyResults() []error {
	defer profiling.Track("render.applyResults")()

	var failures []error
	for _, r := range s.mesher.ReadyChunkMeshes() {
		if r.Err != nil {
			s.meshFailures++
			s.log.WithField("origin", r.Origin).WithError(r.Err).Warn("chunk mesh failed")
			failures = append(failures, r.Err)
			continue
		}
		if want, ok := s.latest[r.Origin]; ok && r.Seq < want {
			s.staleDropped++
			continue
		}
		s.latest[r.Origin] = r.Seq
		s.highestSeq = max(s.highestSeq, r.Seq)
		if r.Empty() {
			if _, ok := s.cache[r.Origin]; ok {
				delete(s.cache, r.Origin)
				s.dirty = true
			}
			continue
		}
		s.cache[r.Origin] = r.Mesh
		s.dirty = true
	}
	return failures
}

// rebuild stitches the whole cache in origin order and rewrites both buffers.
func (s *WorldRenderSystem) rebuild() error {
	defer profiling.Track("render.rebuild")()

	origins := make([]world.BlockPosition, 0, len(s.cache))
	for o := range s.cache {
		origins = append(origins, o)
	}
	slices.SortFunc(origins, world.ComparePositions)

	s.stitched.Reset()
	for _, o := range origins {
		s.stitched.Add(o, s.cache[o])
	}

	if need := s.stitched.VertexCount() * VertexStride; !s.vertices.Fits(need) {
		return fmt.Errorf("rebuild world mesh: %w", &CapacityError{Kind: VertexBuffer, Need: need, Capacity: s.vertices.Capacity()})
	}
	if need := s.stitched.IndexCount() * IndexSize; !s.indices.Fits(need) {
		return fmt.Errorf("rebuild world mesh: %w", &CapacityError{Kind: IndexBuffer, Need: need, Capacity: s.indices.Capacity()})
	}

	s.vertexBytes = EncodeVertices(s.vertexBytes[:0], &s.stitched.Mesh)
	s.indexBytes = EncodeIndices(s.indexBytes[:0], &s.stitched.Mesh)

	if err := s.vertices.Replace(s.vertexBytes); err != nil {
		return err
	}
	if err := s.indices.Replace(s.indexBytes); err != nil {
		return err
	}
	if err := s.vertices.Upload(); err != nil {
		return err
	}
	if err := s.indices.Upload(); err != nil {
		return err
	}

	s.indexCount = s.stitched.IndexCount()
	s.dirty = false
	s.log.WithFields(logrus.Fields{
		"chunks":  len(origins),
		"quads":   s.stitched.QuadCount(),
		"indices": s.indexCount,
	}).Debug("rebuilt world mesh")
	return nil
}

// IndexCount is the number of indices drawn each frame.
func (s *WorldRenderSystem) IndexCount() int { return s.indexCount }

// CachedChunks returns the number of chunk meshes held.
func (s *WorldRenderSystem) CachedChunks() int { return len(s.cache) }

// CachedMesh returns the mesh currently held for origin.
func (s *WorldRenderSystem) CachedMesh(origin world.BlockPosition) (*meshing.Mesh, bool) {
	m, ok := s.cache[origin]
	return m, ok
}

// Spans returns where each chunk landed in the merged buffers at the last rebuild.
func (s *WorldRenderSystem) Spans() []meshing.Span { return s.stitched.Spans() }

// MeshFailures is the number of failed meshing results seen so far.
func (s *WorldRenderSystem) MeshFailures() int { return s.meshFailures }

// StaleDropped is the number of results discarded because a newer dispatch existed.
func (s *WorldRenderSystem) StaleDropped() int { return s.staleDropped }
