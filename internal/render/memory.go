package render

import (
	"errors"
	"fmt"
	"slices"
)

// memoryBuffer grows its staging slice on demand up to capacity.
type memoryBuffer struct {
	kind     BufferKind
	capacity int
	staging  []byte
	uploaded []byte
	uploads  int
}

// MemoryDevice is a Device backed by host memory. It is used for headless
// runs and for tests, and records every draw.
type MemoryDevice struct {
	buffers map[BufferHandle]*memoryBuffer
	next    BufferHandle
	draws   []DrawCall
}

// NewMemoryDevice creates an empty device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{buffers: make(map[BufferHandle]*memoryBuffer)}
}

func (d *MemoryDevice) AllocateBuffer(kind BufferKind, capacity int) (BufferHandle, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("invalid %s buffer capacity %d", kind, capacity)
	}
	d.next++
	d.buffers[d.next] = &memoryBuffer{kind: kind, capacity: capacity}
	return d.next, nil
}

func (d *MemoryDevice) WriteBuffer(h BufferHandle, offset int, data []byte) error {
	b, ok := d.buffers[h]
	if !ok {
		return fmt.Errorf("write %d: %w", h, ErrUnknownBuffer)
	}
	end := offset + len(data)
	if offset < 0 || end > b.capacity {
		return &CapacityError{Kind: b.kind, Need: end, Capacity: b.capacity}
	}
	if end > len(b.staging) {
		b.staging = append(b.staging, make([]byte, end-len(b.staging))...)
	}
	copy(b.staging[offset:], data)
	return nil
}

func (d *MemoryDevice) UploadBuffer(h BufferHandle) error {
	b, ok := d.buffers[h]
	if !ok {
		return fmt.Errorf("upload %d: %w", h, ErrUnknownBuffer)
	}
	b.uploaded = slices.Clone(b.staging)
	b.uploads++
	return nil
}

func (d *MemoryDevice) DrawIndexed(call DrawCall) error {
	vb, ok := d.buffers[call.Vertices]
	if !ok || vb.kind != VertexBuffer {
		return fmt.Errorf("draw: vertex buffer %d: %w", call.Vertices, ErrUnknownBuffer)
	}
	ib, ok := d.buffers[call.Indices]
	if !ok || ib.kind != IndexBuffer {
		return fmt.Errorf("draw: index buffer %d: %w", call.Indices, ErrUnknownBuffer)
	}
	if call.IndexCount < 0 || call.IndexCount*IndexSize > len(ib.uploaded) {
		return errors.New("draw: index count exceeds index buffer")
	}
	d.draws = append(d.draws, call)
	return nil
}

// Uploaded returns the bytes the last UploadBuffer made visible, up to the
// furthest byte ever written, or nil.
func (d *MemoryDevice) Uploaded(h BufferHandle) []byte {
	if b, ok := d.buffers[h]; ok {
		return b.uploaded
	}
	return nil
}

// Uploads returns how many times h was uploaded.
func (d *MemoryDevice) Uploads(h BufferHandle) int {
	if b, ok := d.buffers[h]; ok {
		return b.uploads
	}
	return 0
}

// Draws returns every recorded draw call.
func (d *MemoryDevice) Draws() []DrawCall {
	return d.draws
}

// LastDraw returns the most recent draw call.
func (d *MemoryDevice) LastDraw() (DrawCall, bool) {
	if len(d.draws) == 0 {
		return DrawCall{}, false
	}
	return d.draws[len(d.draws)-1], true
}
