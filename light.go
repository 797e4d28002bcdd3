package violet

import "github.com/go-gl/mathgl/mgl32"

// LightKind selects the shading branch a light uses. The numeric values
// are part of the shader contract (uniform uint light_kind).
type LightKind uint32

const (
	LightPoint       LightKind = 0
	LightDirectional LightKind = 1
	LightAmbient     LightKind = 2
)

func (k LightKind) String() string {
	switch k {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightAmbient:
		return "ambient"
	}
	return "unknown"
}

// LightDescriptor is the CPU-side mirror of the std140 Light uniform
// block. PosDir is a position for point lights, a direction for
// directional lights, and ignored for ambient lights. Color is linear RGB.
type LightDescriptor struct {
	Kind   LightKind
	PosDir mgl32.Vec3
	Color  mgl32.Vec3
}

// lightStride is the std140 size of one packed light: a uint scalar
// rounded up to the vec3 alignment, then two 16-byte vec3 slots.
const lightStride = 48

// Pack encodes the light with std140 layout: kind at offset 0, PosDir at
// 16, Color at 32, 48 bytes total.
func (l LightDescriptor) Pack() []byte {
	var w std140Writer
	w.PutUint32(uint32(l.Kind))
	w.PutVec3(l.PosDir)
	w.PutVec3(l.Color)
	w.AlignStruct()
	return w.Bytes()
}

// PackLights encodes a light array with a 48-byte element stride.
func PackLights(lights []LightDescriptor) []byte {
	buf := make([]byte, 0, len(lights)*lightStride)
	for _, l := range lights {
		buf = append(buf, l.Pack()...)
	}
	return buf
}

// LightBuffer owns a uniform block holding a packed light array. Each
// light occupies one std140 element; per-light guards expose exactly one
// element to the shader's Light block.
type LightBuffer struct {
	block  *UniformBlock
	lights []LightDescriptor
}

// NewLightBuffer packs and uploads the lights. At least one light is
// required.
func NewLightBuffer(dev Device, lights []LightDescriptor) (*LightBuffer, error) {
	if len(lights) == 0 {
		return nil, &ConfigurationError{Reason: "light buffer needs at least one light"}
	}
	block, err := NewUniformBlock(dev)
	if err != nil {
		return nil, err
	}
	ub, err := block.Bind()
	if err != nil {
		block.Release()
		return nil, err
	}
	if err := ub.Upload(PackLights(lights)); err != nil {
		block.Release()
		return nil, err
	}
	return &LightBuffer{
		block:  block,
		lights: append([]LightDescriptor(nil), lights...),
	}, nil
}

// Len returns the number of lights.
func (lb *LightBuffer) Len() int { return len(lb.lights) }

// Lights returns the stored descriptors.
func (lb *LightBuffer) Lights() []LightDescriptor { return lb.lights }

// Bind makes the light data the active uniform buffer and returns the
// guard lit materials require at draw time.
func (lb *LightBuffer) Bind() (*LightBinding, error) {
	ub, err := lb.block.Bind()
	if err != nil {
		return nil, err
	}
	return &LightBinding{buf: lb, ub: ub}, nil
}

// Release frees the underlying uniform block. Safe to call more than once.
func (lb *LightBuffer) Release() {
	lb.block.Release()
}

// LightBinding proves the light data is the active uniform buffer. It is
// the "light guard" a lit material draw requires alongside the
// framebuffer guard.
type LightBinding struct {
	buf *LightBuffer
	ub  *UniformBlockBinding
}

// Len returns the number of lights available through this binding.
func (lbb *LightBinding) Len() int { return lbb.buf.Len() }

// Light returns the descriptor at index i.
func (lbb *LightBinding) Light(i int) LightDescriptor { return lbb.buf.lights[i] }

// BindLight exposes light i to shader Light blocks routed to slot.
func (lbb *LightBinding) BindLight(i int, slot uint32) error {
	if i < 0 || i >= len(lbb.buf.lights) {
		return &ConfigurationError{Reason: "light index out of range"}
	}
	return lbb.ub.BindRange(slot, i*lightStride, lightStride)
}
