package meshing

import (
	"errors"
	"io"
	"testing"

	"voxel-world/internal/world"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestMesher(t *testing.T, opts Options) *ChunkMesher {
	t.Helper()
	opts.Logger = quietLogger()
	m := NewChunkMesher(opts)
	t.Cleanup(m.Close)
	return m
}

func TestChunkMesherPublishesResults(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 4})
	w := world.Generate(world.FlatGenerator{Height: 3}, world.GenerateOptions{Radius: 2, Height: 1})

	seqs := make(map[uint64]bool)
	for _, o := range w.ChunkOrigins() {
		n, _ := w.Snapshot(o)
		seq := m.BeginMeshingChunk(n)
		if seq == 0 || seqs[seq] {
			t.Fatalf("bad sequence %d for %v", seq, o)
		}
		seqs[seq] = true
	}
	m.Wait()

	results := m.ReadyChunkMeshes()
	if len(results) != w.Len() {
		t.Fatalf("results: got %d, want %d", len(results), w.Len())
	}
	seen := make(map[world.BlockPosition]bool)
	for _, r := range results {
		if r.Err != nil || r.Mesh.IsEmpty() {
			t.Fatalf("result for %v: err=%v empty=%v", r.Origin, r.Err, r.Mesh.IsEmpty())
		}
		if err := r.Mesh.Validate(); err != nil {
			t.Fatalf("result for %v: %v", r.Origin, err)
		}
		seen[r.Origin] = true
	}
	if len(seen) != w.Len() {
		t.Fatalf("distinct origins: got %d, want %d", len(seen), w.Len())
	}
	if again := m.ReadyChunkMeshes(); again != nil {
		t.Fatalf("second drain returned %d results", len(again))
	}
	if s := m.Stats(); s.Completed != uint64(w.Len()) || s.InFlight != 0 {
		t.Fatalf("stats: %+v", s)
	}
}

func TestChunkMesherReportsEmptyMeshes(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 1})
	origin := world.NewBlockPosition(0, 0, 0)
	seq := m.BeginMeshingChunk(world.Neighborhood{Center: world.NewChunk(origin)})
	m.Wait()

	got := m.ReadyChunkMeshes()
	if len(got) != 1 {
		t.Fatalf("empty chunk produced %d results, want 1", len(got))
	}
	if r := got[0]; !r.Empty() || r.Mesh != nil || r.Origin != origin || r.Seq != seq {
		t.Fatalf("result: %+v", r)
	}
	if s := m.Stats(); s.DroppedEmpty != 1 {
		t.Fatalf("DroppedEmpty: got %d, want 1", s.DroppedEmpty)
	}
}

func TestChunkMesherRetriesAfterPanic(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 1, MaxRetries: 2})
	var calls atomic.Int64
	m.meshFunc = func(n world.Neighborhood) *Mesh {
		if calls.Inc() == 1 {
			panic("transient")
		}
		return MeshChunk(n)
	}

	c := world.NewChunk(world.NewBlockPosition(0, 0, 0))
	c.SetBlockAtLocal(0, 0, 0, stone)
	m.BeginMeshingChunk(world.Neighborhood{Center: c})
	m.Wait()

	results := m.ReadyChunkMeshes()
	if len(results) != 1 || results[0].Err != nil || results[0].Mesh.QuadCount() != 6 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if s := m.Stats(); s.Retries != 1 || s.Failed != 0 {
		t.Fatalf("stats: %+v", s)
	}
}

func TestChunkMesherReportsPersistentFailure(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 1, MaxRetries: 1})
	m.meshFunc = func(world.Neighborhood) *Mesh {
		panic("broken")
	}

	origin := world.NewBlockPosition(16, 0, 0)
	seq := m.BeginMeshingChunk(world.Neighborhood{Center: world.NewChunk(origin)})
	m.Wait()

	results := m.ReadyChunkMeshes()
	if len(results) != 1 {
		t.Fatalf("results: got %d, want 1", len(results))
	}
	r := results[0]
	if r.Origin != origin || r.Seq != seq || r.Mesh != nil {
		t.Fatalf("unexpected result: %+v", r)
	}
	if !errors.Is(r.Err, ErrMeshingTaskFailed) {
		t.Fatalf("expected ErrMeshingTaskFailed, got %v", r.Err)
	}
	var tf *TaskFailureError
	if !errors.As(r.Err, &tf) || tf.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %#v", r.Err)
	}
	if s := m.Stats(); s.Failed != 1 {
		t.Fatalf("Failed: got %d, want 1", s.Failed)
	}
}

func TestChunkMesherClosed(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 1})
	m.Close()
	m.Close()
	if !m.Closed() {
		t.Fatalf("Closed() = false after Close")
	}
	c := world.NewFilledChunk(world.NewBlockPosition(0, 0, 0), stone)
	if seq := m.BeginMeshingChunk(world.Neighborhood{Center: c}); seq != 0 {
		t.Fatalf("closed mesher accepted work (seq %d)", seq)
	}
	if m.BeginMeshingChunk(world.Neighborhood{}) != 0 {
		t.Fatalf("nil center accepted")
	}
}

func TestChunkMesherSnapshotIsolation(t *testing.T) {
	m := newTestMesher(t, Options{Workers: 2})
	w := world.NewWorld()
	w.AddChunk(world.NewFilledChunk(world.NewBlockPosition(0, 0, 0), stone))

	n, _ := w.Snapshot(world.NewBlockPosition(0, 0, 0))
	m.BeginMeshingChunk(n)
	// Hollow the live chunk while the task may be running.
	for x := int32(1); x < 15; x++ {
		w.SetBlockAtPosition(world.NewBlockPosition(x, 8, 8), world.Block{})
	}
	m.Wait()

	results := m.ReadyChunkMeshes()
	if len(results) != 1 || results[0].Mesh.QuadCount() != 6*world.ChunkWidth*world.ChunkHeight {
		t.Fatalf("mesh reflects writes made after the snapshot")
	}
}

func BenchmarkChunkMesher(b *testing.B) {
	w := world.Generate(world.NewNoiseGenerator(7, 4), world.GenerateOptions{Radius: 2, Height: 2})
	var ns []world.Neighborhood
	for _, o := range w.ChunkOrigins() {
		n, _ := w.Snapshot(o)
		ns = append(ns, n)
	}
	m := NewChunkMesher(Options{Logger: quietLogger()})
	defer m.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, n := range ns {
			m.BeginMeshingChunk(n)
		}
		m.Wait()
		m.ReadyChunkMeshes()
	}
}
