package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferKind is the binding a GPU buffer is created for.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	default:
		return fmt.Sprintf("BufferKind(%d)", int(k))
	}
}

// BufferHandle identifies a buffer owned by a Device. Zero is never a valid handle.
type BufferHandle uint32

// DrawCall is a single indexed triangle draw over a vertex/index buffer pair.
type DrawCall struct {
	Vertices   BufferHandle
	Indices    BufferHandle
	IndexCount int
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Device is the GPU surface the render system needs. Implementations are
// only called from the frame thread.
type Device interface {
	// AllocateBuffer creates a buffer of capacity bytes.
	AllocateBuffer(kind BufferKind, capacity int) (BufferHandle, error)
	// WriteBuffer copies data into the host-visible side of the buffer at offset.
	WriteBuffer(h BufferHandle, offset int, data []byte) error
	// UploadBuffer makes everything written so far visible to draws.
	UploadBuffer(h BufferHandle) error
	DrawIndexed(call DrawCall) error
}

// Camera supplies the matrices for a frame.
type Camera interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}

// StagedBuffer is a fixed-capacity device buffer that is rewritten as a whole
// and then uploaded.
type StagedBuffer struct {
	device   Device
	handle   BufferHandle
	kind     BufferKind
	capacity int
	used     int
}

// NewStagedBuffer allocates a buffer of capacity bytes on d.
func NewStagedBuffer(d Device, kind BufferKind, capacity int) (*StagedBuffer, error) {
	h, err := d.AllocateBuffer(kind, capacity)
	if err != nil {
		return nil, fmt.Errorf("allocate %s buffer (%d bytes): %w", kind, capacity, err)
	}
	return &StagedBuffer{
		device:   d,
		handle:   h,
		kind:     kind,
		capacity: capacity,
	}, nil
}

// Replace writes data at offset 0. Nothing is written when data does not fit.
func (b *StagedBuffer) Replace(data []byte) error {
	if len(data) > b.capacity {
		return &CapacityError{Kind: b.kind, Need: len(data), Capacity: b.capacity}
	}
	if len(data) > 0 {
		if err := b.device.WriteBuffer(b.handle, 0, data); err != nil {
			return fmt.Errorf("write %s buffer: %w", b.kind, err)
		}
	}
	b.used = len(data)
	return nil
}

// Upload pushes the staged contents to the device.
func (b *StagedBuffer) Upload() error {
	if err := b.device.UploadBuffer(b.handle); err != nil {
		return fmt.Errorf("upload %s buffer: %w", b.kind, err)
	}
	return nil
}

// Fits reports whether n bytes fit the buffer.
func (b *StagedBuffer) Fits(n int) bool { return n <= b.capacity }

func (b *StagedBuffer) Handle() BufferHandle { return b.handle }
func (b *StagedBuffer) Kind() BufferKind     { return b.kind }
func (b *StagedBuffer) Capacity() int        { return b.capacity }
func (b *StagedBuffer) Len() int             { return b.used }
