package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

var crosshairVertices = []float32{
	-0.02, 0.0,
	0.02, 0.0,
	0.0, -0.02,
	0.0, 0.02,
}

// Crosshair draws a screen-centre cross over the world.
type Crosshair struct {
	shader *Shader
	vao    uint32
	vbo    uint32
}

func NewCrosshair() (*Crosshair, error) {
	shader, err := LoadShader("crosshair")
	if err != nil {
		return nil, err
	}
	c := &Crosshair{shader: shader}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(crosshairVertices)*4, gl.Ptr(crosshairVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.BindVertexArray(0)
	return c, nil
}

// Draw renders the cross on top of the frame.
func (c *Crosshair) Draw(aspectRatio float32) {
	if aspectRatio <= 0 {
		return
	}
	c.shader.Use()
	c.shader.SetFloat("aspectRatio", aspectRatio)

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.LINES, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (c *Crosshair) Delete() {
	gl.DeleteVertexArrays(1, &c.vao)
	gl.DeleteBuffers(1, &c.vbo)
	c.shader.Delete()
}
