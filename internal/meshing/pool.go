package meshing

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"voxel-world/internal/profiling"
	"voxel-world/internal/world"

	"github.com/alitto/pond/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrMeshingTaskFailed is matched by every TaskFailureError.
var ErrMeshingTaskFailed = errors.New("chunk meshing task failed")

// TaskFailureError reports a meshing task that panicked on every attempt.
type TaskFailureError struct {
	Origin   world.BlockPosition
	Attempts int
	Cause    any
}

func (e *TaskFailureError) Error() string {
	return fmt.Sprintf("meshing chunk at %v failed after %d attempt(s): %v", e.Origin, e.Attempts, e.Cause)
}

func (e *TaskFailureError) Unwrap() error {
	return ErrMeshingTaskFailed
}

// Result is one completed meshing task. Err is set for a failed task; Mesh is
// nil for a failed task and for a chunk with no visible faces.
type Result struct {
	Origin world.BlockPosition
	Seq    uint64 // dispatch sequence returned by BeginMeshingChunk
	Mesh   *Mesh
	Err    error
}

// Empty reports a successful result that produced no geometry.
func (r Result) Empty() bool {
	return r.Err == nil && r.Mesh.IsEmpty()
}

// Options configures a ChunkMesher.
type Options struct {
	Workers      int           // defaults to runtime.NumCPU()
	MaxRetries   int           // extra attempts after a panic
	RetryBackoff time.Duration // first retry delay, doubled per attempt
	Logger       logrus.FieldLogger
}

// Stats is a point-in-time view of the mesher counters.
type Stats struct {
	InFlight     int64
	Completed    uint64
	Failed       uint64
	DroppedEmpty uint64
	Retries      uint64
}

// ChunkMesher meshes chunk snapshots on a worker pool and queues the results
// for the frame thread to collect.
type ChunkMesher struct {
	pool  pond.Pool
	queue resultQueue
	opts  Options
	log   logrus.FieldLogger

	meshFunc func(world.Neighborhood) *Mesh

	seq          atomic.Uint64
	inFlight     atomic.Int64
	completed    atomic.Uint64
	failed       atomic.Uint64
	droppedEmpty atomic.Uint64
	retries      atomic.Uint64
	closed       atomic.Bool

	mu        sync.RWMutex // orders submissions against Close
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewChunkMesher starts a mesher with its own worker pool.
func NewChunkMesher(opts Options) *ChunkMesher {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &ChunkMesher{
		pool:     pond.NewPool(opts.Workers),
		opts:     opts,
		log:      opts.Logger.WithField("component", "chunk_mesher"),
		meshFunc: MeshChunk,
	}
}

// BeginMeshingChunk schedules n for meshing and returns its dispatch sequence.
// n must be a snapshot that nothing else writes to. Returns 0 once the mesher is closed.
func (m *ChunkMesher) BeginMeshingChunk(n world.Neighborhood) uint64 {
	if n.Center == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed.Load() {
		return 0
	}

	seq := m.seq.Inc()
	origin := n.Center.Origin()
	m.wg.Add(1)
	m.inFlight.Inc()
	m.pool.Submit(func() {
		defer m.wg.Done()
		defer m.inFlight.Dec()
		m.run(origin, seq, n)
	})
	return seq
}

func (m *ChunkMesher) run(origin world.BlockPosition, seq uint64, n world.Neighborhood) {
	backoff := m.opts.RetryBackoff
	for attempt := 1; ; attempt++ {
		mesh, err := m.meshOnce(origin, attempt, n)
		if err == nil {
			m.completed.Inc()
			if mesh.IsEmpty() {
				m.droppedEmpty.Inc()
				m.queue.push(Result{Origin: origin, Seq: seq})
				return
			}
			m.queue.push(Result{Origin: origin, Seq: seq, Mesh: mesh})
			return
		}

		fields := logrus.Fields{"origin": origin, "seq": seq, "attempt": attempt}
		if attempt > m.opts.MaxRetries {
			m.failed.Inc()
			m.log.WithFields(fields).WithError(err).Error("giving up on chunk mesh")
			m.queue.push(Result{Origin: origin, Seq: seq, Err: err})
			return
		}
		m.retries.Inc()
		m.log.WithFields(fields).WithError(err).Warn("chunk mesh attempt failed, retrying")
		if backoff > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
}

// meshOnce runs the mesh function, converting a panic into a TaskFailureError.
func (m *ChunkMesher) meshOnce(origin world.BlockPosition, attempt int, n world.Neighborhood) (mesh *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = &TaskFailureError{Origin: origin, Attempts: attempt, Cause: r}
		}
	}()
	defer profiling.Track("meshing.MeshChunk")()
	return m.meshFunc(n), nil
}

// ReadyChunkMeshes returns every result completed since the previous call.
// It never blocks and returns nil when nothing is ready.
func (m *ChunkMesher) ReadyChunkMeshes() []Result {
	return m.queue.drain()
}

// Pending returns the number of results waiting to be drained.
func (m *ChunkMesher) Pending() int {
	return m.queue.len()
}

// Wait blocks until every task dispatched so far has finished.
func (m *ChunkMesher) Wait() {
	m.wg.Wait()
}

// Close stops accepting work and waits for running tasks. Results already
// queued can still be drained.
func (m *ChunkMesher) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed.Store(true)
		m.mu.Unlock()
		m.pool.StopAndWait()
	})
}

// Closed reports whether Close has been called.
func (m *ChunkMesher) Closed() bool {
	return m.closed.Load()
}

// Stats returns the current counters.
func (m *ChunkMesher) Stats() Stats {
	return Stats{
		InFlight:     m.inFlight.Load(),
		Completed:    m.completed.Load(),
		Failed:       m.failed.Load(),
		DroppedEmpty: m.droppedEmpty.Load(),
		Retries:      m.retries.Load(),
	}
}
