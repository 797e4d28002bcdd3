package violet

import (
	"encoding/binary"
	"math"
)

// ScreenPass draws a fullscreen quad with an arbitrary fragment program.
// It is the building block for post-processing (tone mapping, debug
// blits): bind the destination framebuffer, set uniforms through Program,
// then Draw.
type ScreenPass struct {
	dev      Device
	prog     *ShaderProgram
	vao      uint32
	vertices *Buffer
	indices  *Buffer
	released bool
}

// Two triangles covering clip space, interleaved position/uv.
var screenQuad = []float32{
	-1, -1, 0, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
	1, -1, 1, 0,
}

var screenQuadIndices = []uint32{0, 2, 1, 0, 3, 2}

// NewScreenPass compiles fragmentSrc over the built-in fullscreen vertex
// stage and uploads the quad geometry.
func NewScreenPass(dev Device, fragmentSrc string) (*ScreenPass, error) {
	prog, err := CompileProgram(dev, screenVertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		prog.Release()
		return nil, err
	}
	dev.BindVertexArray(vao)

	raw := make([]byte, 0, len(screenQuad)*4)
	for _, v := range screenQuad {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	vbuf, err := NewBufferData(dev, BufferVertex, raw, UsageStatic)
	if err != nil {
		dev.DeleteVertexArray(vao)
		prog.Release()
		return nil, err
	}
	dev.VertexAttrib(0, 2, 16, 0)
	dev.VertexAttrib(1, 2, 16, 8)

	ibuf, err := NewBufferData(dev, BufferIndex, packIndices(screenQuadIndices), UsageStatic)
	if err != nil {
		vbuf.Release()
		dev.DeleteVertexArray(vao)
		prog.Release()
		return nil, err
	}
	dev.BindVertexArray(0)

	return &ScreenPass{
		dev:      dev,
		prog:     prog,
		vao:      vao,
		vertices: vbuf,
		indices:  ibuf,
	}, nil
}

// Program binds the pass program and returns the guard for uniform setup.
func (p *ScreenPass) Program() (*ProgramBinding, error) {
	if p.released {
		return nil, errReleased("ScreenPass.Program", KindProgram)
	}
	return p.prog.Bind()
}

// Draw renders the fullscreen quad into the bound framebuffer with the
// pass program and whatever uniforms the caller established.
func (p *ScreenPass) Draw(fb *FramebufferBinding) error {
	if p.released {
		return errReleased("ScreenPass.Draw", KindProgram)
	}
	if _, err := p.prog.Bind(); err != nil {
		return err
	}
	p.dev.BindVertexArray(p.vao)
	if _, err := p.indices.Bind(); err != nil {
		return err
	}
	err := fb.DrawElements(DrawTriangles, len(screenQuadIndices))
	p.dev.BindVertexArray(0)
	return err
}

// Release frees the program, quad buffers and vertex array. Safe to call
// more than once.
func (p *ScreenPass) Release() {
	if p.released {
		return
	}
	p.released = true
	p.prog.Release()
	p.vertices.Release()
	p.indices.Release()
	p.dev.DeleteVertexArray(p.vao)
}
