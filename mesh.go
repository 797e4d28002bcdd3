package violet

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one interleaved mesh vertex: position, normal, uv.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// vertexStride is the packed byte size of one Vertex.
const vertexStride = 8 * 4

// MeshData is CPU-side geometry: interleaved vertices plus triangle-list
// indices. It is what tessellation produces and what NewMesh uploads.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// packVertices serializes vertices as little-endian float32 triples/pairs
// matching the attribute layout (position 0, normal 1, uv 2).
func packVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*vertexStride)
	putf := func(v float32) {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	for _, v := range vertices {
		putf(v.Position.X())
		putf(v.Position.Y())
		putf(v.Position.Z())
		putf(v.Normal.X())
		putf(v.Normal.Y())
		putf(v.Normal.Z())
		putf(v.UV.X())
		putf(v.UV.Y())
	}
	return buf
}

func packIndices(indices []uint32) []byte {
	buf := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}

// Mesh is device-side geometry: a vertex buffer, an index buffer and the
// vertex array that captures their layout.
type Mesh struct {
	dev      Device
	vao      uint32
	vertices *Buffer
	indices  *Buffer
	count    int
	released bool
}

// NewMesh uploads data and records the attribute layout. The mesh owns
// both buffers; Release frees everything exactly once.
func NewMesh(dev Device, data MeshData) (*Mesh, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, &ConfigurationError{Reason: "mesh needs vertices and indices"}
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	dev.BindVertexArray(vao)

	vbuf, err := NewBufferData(dev, BufferVertex, packVertices(data.Vertices), UsageStatic)
	if err != nil {
		dev.DeleteVertexArray(vao)
		return nil, err
	}
	dev.VertexAttrib(0, 3, vertexStride, 0)
	dev.VertexAttrib(1, 3, vertexStride, 12)
	dev.VertexAttrib(2, 2, vertexStride, 24)

	ibuf, err := NewBufferData(dev, BufferIndex, packIndices(data.Indices), UsageStatic)
	if err != nil {
		vbuf.Release()
		dev.DeleteVertexArray(vao)
		return nil, err
	}
	dev.BindVertexArray(0)

	return &Mesh{
		dev:      dev,
		vao:      vao,
		vertices: vbuf,
		indices:  ibuf,
		count:    len(data.Indices),
	}, nil
}

// IndexCount returns the number of indices drawn per call.
func (m *Mesh) IndexCount() int { return m.count }

func (m *Mesh) draw(fb *FramebufferBinding, mode DrawMode) error {
	if m.released {
		return errReleased("Mesh.Draw", KindBuffer)
	}
	m.dev.BindVertexArray(m.vao)
	if _, err := m.indices.Bind(); err != nil {
		return err
	}
	err := fb.DrawElements(mode, m.count)
	m.dev.BindVertexArray(0)
	return err
}

// Draw issues an indexed triangle draw into the bound framebuffer. The
// current program and its uniforms are whatever the caller established;
// Material owns that for shaded passes.
func (m *Mesh) Draw(fb *FramebufferBinding) error {
	return m.draw(fb, DrawTriangles)
}

// Wireframe draws triangle edges only.
func (m *Mesh) Wireframe(fb *FramebufferBinding) error {
	return m.draw(fb, DrawWireframe)
}

// Release frees the vertex array and both buffers. Safe to call more
// than once.
func (m *Mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.vertices.Release()
	m.indices.Release()
	m.dev.DeleteVertexArray(m.vao)
}

// UVSphere generates a longitude/latitude sphere: nlon segments around,
// nlat from pole to pole, poles as single vertices. Normals point outward
// and equal the unit position.
func UVSphere(radius float32, nlon, nlat int) MeshData {
	if nlon < 3 {
		nlon = 3
	}
	if nlat < 2 {
		nlat = 2
	}

	vertices := make([]Vertex, 0, nlon*(nlat-1)+2)
	vertices = append(vertices, Vertex{
		Position: mgl32.Vec3{0, radius, 0},
		Normal:   mgl32.Vec3{0, 1, 0},
		UV:       mgl32.Vec2{0.5, 1},
	})

	latStep := math32.Pi / float32(nlat)
	lonStep := 2 * math32.Pi / float32(nlon)
	for j := 1; j < nlat; j++ {
		phi := math32.Pi/2 - float32(j)*latStep
		sphi, cphi := math32.Sincos(phi)
		for i := 0; i < nlon; i++ {
			theta := float32(i) * lonStep
			sth, cth := math32.Sincos(theta)
			normal := mgl32.Vec3{cphi * cth, sphi, cphi * sth}
			vertices = append(vertices, Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(i) / float32(nlon), 1 - float32(j)/float32(nlat)},
			})
		}
	}
	vertices = append(vertices, Vertex{
		Position: mgl32.Vec3{0, -radius, 0},
		Normal:   mgl32.Vec3{0, -1, 0},
		UV:       mgl32.Vec2{0.5, 0},
	})

	indices := make([]uint32, 0, nlon*nlat*6)
	ring := func(j, i int) uint32 { return uint32(1 + j*nlon + i%nlon) }

	// Cap around the north pole.
	for i := 0; i < nlon; i++ {
		indices = append(indices, 0, ring(0, i), ring(0, i+1))
	}
	// Quad strips between latitude rings.
	for j := 0; j < nlat-2; j++ {
		for i := 0; i < nlon; i++ {
			tl, tr := ring(j, i), ring(j, i+1)
			bl, br := ring(j+1, i), ring(j+1, i+1)
			indices = append(indices, tl, bl, tr, bl, br, tr)
		}
	}
	// Cap around the south pole.
	south := uint32(len(vertices) - 1)
	for i := 0; i < nlon; i++ {
		indices = append(indices, south, ring(nlat-2, i+1), ring(nlat-2, i))
	}

	return MeshData{Vertices: vertices, Indices: indices}
}
