package graphics

import (
	"fmt"

	"voxel-world/internal/render"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type glBuffer struct {
	kind    render.BufferKind
	id      uint32
	staging []byte
	// dirty byte range [lo, hi) written since the last upload
	lo, hi int
}

type vaoKey struct {
	vertices, indices render.BufferHandle
}

// GLDevice implements render.Device on an OpenGL 4.1 core context.
// All methods must run on the thread that owns the context.
type GLDevice struct {
	shader  *Shader
	buffers map[render.BufferHandle]*glBuffer
	vaos    map[vaoKey]uint32
	next    render.BufferHandle

	LightDir  mgl32.Vec3
	BaseColor mgl32.Vec3
	Ambient   float32
}

// NewGLDevice compiles the world shader and sets the fixed pipeline state.
func NewGLDevice() (*GLDevice, error) {
	shader, err := LoadShader("world")
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &GLDevice{
		shader:    shader,
		buffers:   make(map[render.BufferHandle]*glBuffer),
		vaos:      make(map[vaoKey]uint32),
		LightDir:  mgl32.Vec3{-0.4, -1.0, -0.3},
		BaseColor: mgl32.Vec3{0.55, 0.62, 0.5},
		Ambient:   0.35,
	}, nil
}

func (d *GLDevice) AllocateBuffer(kind render.BufferKind, capacity int) (render.BufferHandle, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("invalid %s buffer capacity %d", kind, capacity)
	}
	b := &glBuffer{kind: kind, staging: make([]byte, capacity)}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, capacity, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &b.id)
		return 0, fmt.Errorf("allocate %s buffer (%d bytes): gl error 0x%x", kind, capacity, code)
	}

	d.next++
	d.buffers[d.next] = b
	return d.next, nil
}

func (d *GLDevice) WriteBuffer(h render.BufferHandle, offset int, data []byte) error {
	b, ok := d.buffers[h]
	if !ok {
		return fmt.Errorf("write %d: %w", h, render.ErrUnknownBuffer)
	}
	end := offset + len(data)
	if offset < 0 || end > len(b.staging) {
		return &render.CapacityError{Kind: b.kind, Need: end, Capacity: len(b.staging)}
	}
	copy(b.staging[offset:], data)
	if b.hi == 0 {
		b.lo, b.hi = offset, end
	} else {
		b.lo, b.hi = min(b.lo, offset), max(b.hi, end)
	}
	return nil
}

func (d *GLDevice) UploadBuffer(h render.BufferHandle) error {
	b, ok := d.buffers[h]
	if !ok {
		return fmt.Errorf("upload %d: %w", h, render.ErrUnknownBuffer)
	}
	if b.hi <= b.lo {
		return nil
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, b.lo, b.hi-b.lo, gl.Ptr(&b.staging[b.lo]))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	b.lo, b.hi = 0, 0
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("upload %s buffer: gl error 0x%x", b.kind, code)
	}
	return nil
}

func (d *GLDevice) DrawIndexed(call render.DrawCall) error {
	vao, err := d.vertexArray(call.Vertices, call.Indices)
	if err != nil {
		return err
	}

	d.shader.Use()
	d.shader.SetMatrix4("view", call.View)
	d.shader.SetMatrix4("projection", call.Projection)
	d.shader.SetVector3("lightDir", d.LightDir)
	d.shader.SetVector3("baseColor", d.BaseColor)
	d.shader.SetFloat("ambient", d.Ambient)

	if call.IndexCount > 0 {
		gl.BindVertexArray(vao)
		gl.DrawElements(gl.TRIANGLES, int32(call.IndexCount), gl.UNSIGNED_INT, gl.PtrOffset(0))
		gl.BindVertexArray(0)
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("draw %d indices: gl error 0x%x", call.IndexCount, code)
	}
	return nil
}

// vertexArray returns the VAO binding a vertex/index buffer pair, creating it on first use.
// Layout: position.xyz at 0, normal.xyz at 12, stride 24.
func (d *GLDevice) vertexArray(vh, ih render.BufferHandle) (uint32, error) {
	key := vaoKey{vertices: vh, indices: ih}
	if vao, ok := d.vaos[key]; ok {
		return vao, nil
	}
	vb, ok := d.buffers[vh]
	if !ok || vb.kind != render.VertexBuffer {
		return 0, fmt.Errorf("draw: vertex buffer %d: %w", vh, render.ErrUnknownBuffer)
	}
	ib, ok := d.buffers[ih]
	if !ok || ib.kind != render.IndexBuffer {
		return 0, fmt.Errorf("draw: index buffer %d: %w", ih, render.ErrUnknownBuffer)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, render.VertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, render.VertexStride, 3*4)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	gl.BindVertexArray(0)

	d.vaos[key] = vao
	return vao, nil
}

// Delete releases every GL object the device created.
func (d *GLDevice) Delete() {
	for _, vao := range d.vaos {
		gl.DeleteVertexArrays(1, &vao)
	}
	for _, b := range d.buffers {
		gl.DeleteBuffers(1, &b.id)
	}
	clear(d.vaos)
	clear(d.buffers)
	d.shader.Delete()
}
