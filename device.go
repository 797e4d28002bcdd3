package violet

// Device is the abstraction of the underlying bind-based graphics API.
//
// The device is an implicit state machine: object creation returns an
// integer name, and state-dependent calls act on the name most recently
// bound for the relevant kind/target. Device implementations translate
// these calls one-to-one; all bookkeeping that makes the state machine
// safe to use (ownership, release-once, binding guards) lives above this
// interface, in the resource types of this package.
//
// Implementations: backend/gl drives a real OpenGL 4.1 core context;
// backend/headless is a deterministic CPU emulation used by tests.
//
// Devices are not safe for concurrent use. All calls must come from the
// single thread that owns the device context; this matches the underlying
// APIs, which forbid cross-thread use of their implicit state.
//
// Methods that the device can reject return an error, always a
// *DeviceError (or *CompileError for CompileProgram). Calls execute in
// the exact order issued; nothing is buffered or reordered.
type Device interface {
	// Buffers.
	CreateBuffer() (uint32, error)
	DeleteBuffer(name uint32)
	BindBuffer(role BufferRole, name uint32)
	// BufferData uploads data to the buffer currently bound for role.
	BufferData(role BufferRole, data []byte, usage BufferUsage) error
	// BindBufferRange binds a byte range of a uniform-role buffer to an
	// indexed uniform slot, making it visible to shader uniform blocks.
	BindBufferRange(slot uint32, name uint32, offset, size int) error

	// Vertex arrays. A vertex array captures attribute layout plus the
	// element buffer binding, exactly like a GL VAO.
	CreateVertexArray() (uint32, error)
	DeleteVertexArray(name uint32)
	BindVertexArray(name uint32)
	// VertexAttrib declares float32 attribute index with size components,
	// read from the currently bound vertex buffer at stride/offset bytes.
	VertexAttrib(index, size, stride, offset int)

	// Textures.
	CreateTexture() (uint32, error)
	DeleteTexture(name uint32)
	ActiveTexture(unit int)
	BindTexture(name uint32)
	// TexImage2D allocates storage for the currently bound texture and,
	// when pix is non-nil, uploads it. Length validation against the
	// declared dimensions happens above this interface.
	TexImage2D(width, height int, format PixelFormat, pix []byte) error
	TexFilter(min, mag FilterMode)

	// Framebuffers. Name 0 is the default (window or headless) target.
	CreateFramebuffer() (uint32, error)
	DeleteFramebuffer(name uint32)
	BindFramebuffer(name uint32)
	FramebufferTexture(point AttachmentPoint, texture uint32) error
	FramebufferStatus() FramebufferStatus
	ClearColor(r, g, b, a float32)
	ClearDepth(d float32)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int)
	SetBlend(mode BlendMode)
	SetDepthTest(enabled bool)
	// DrawElements draws count indices from the element buffer captured by
	// the currently bound vertex array, into the currently bound framebuffer.
	DrawElements(mode DrawMode, count int) error
	// ReadPixels returns the RGBA float contents of the given rectangle of
	// the currently bound framebuffer, row-major from the lower-left corner.
	ReadPixels(x, y, width, height int) ([]float32, error)

	// Programs.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(name uint32)
	UseProgram(name uint32)
	// UniformLocation returns -1 when the uniform does not exist (or was
	// optimized out); that is not an error at this layer.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4(location int32, m [16]float32)
	UniformBlockBinding(program uint32, block string, slot uint32) error
}

// BufferRole selects the binding target a buffer is used through.
type BufferRole uint8

const (
	// BufferVertex holds interleaved vertex attributes.
	BufferVertex BufferRole = iota

	// BufferIndex holds triangle-list indices.
	BufferIndex

	// BufferUniform holds std140-packed uniform block data.
	BufferUniform
)

func (r BufferRole) String() string {
	switch r {
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	case BufferUniform:
		return "uniform"
	}
	return "unknown"
}

// BufferUsage hints how often buffer contents will be rewritten.
type BufferUsage uint8

const (
	// UsageStatic marks data uploaded once and drawn many times.
	UsageStatic BufferUsage = iota

	// UsageDynamic marks data rewritten frequently.
	UsageDynamic
)

// PixelFormat identifies texture storage and upload formats.
type PixelFormat uint8

const (
	// FormatRGB8 is 8-bit-per-channel RGB, 3 bytes per pixel.
	FormatRGB8 PixelFormat = iota

	// FormatRGBA8 is 8-bit-per-channel RGBA, 4 bytes per pixel.
	FormatRGBA8

	// FormatRGBA16F is half-float RGBA, used for HDR render targets.
	// Storage-only: image uploads in this format are not supported.
	FormatRGBA16F

	// FormatDepth32F is a 32-bit float depth attachment format.
	// Storage-only.
	FormatDepth32F
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB8:
		return "rgb8"
	case FormatRGBA8:
		return "rgba8"
	case FormatRGBA16F:
		return "rgba16f"
	case FormatDepth32F:
		return "depth32f"
	}
	return "unknown"
}

// BytesPerPixel returns the upload byte size per pixel, or 0 for
// storage-only formats that reject image uploads.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB8:
		return 3
	case FormatRGBA8:
		return 4
	}
	return 0
}

// FilterMode selects texture minification/magnification filtering.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// AttachmentPoint identifies a framebuffer attachment slot.
type AttachmentPoint uint8

const (
	// AttachDepth is the depth attachment slot.
	AttachDepth AttachmentPoint = 0xff
)

// ColorAttachment returns the attachment point for color slot i.
func ColorAttachment(i int) AttachmentPoint { return AttachmentPoint(i) }

// ClearMask selects which buffers Clear affects.
type ClearMask uint8

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
)

// BlendMode selects how fragment output combines with the framebuffer.
type BlendMode uint8

const (
	// BlendReplace overwrites the destination (blending disabled).
	BlendReplace BlendMode = iota

	// BlendAdditive sums source and destination, used to accumulate
	// per-light shading passes.
	BlendAdditive
)

// DrawMode selects primitive interpretation for draw calls.
type DrawMode uint8

const (
	// DrawTriangles interprets indices as a triangle list.
	DrawTriangles DrawMode = iota

	// DrawWireframe draws triangle edges only.
	DrawWireframe
)

// FramebufferStatus reports framebuffer completeness. A render pass may
// only proceed against a Complete framebuffer.
type FramebufferStatus uint8

const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferUnsupported
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferMissingAttachment:
		return "missing attachment"
	case FramebufferUnsupported:
		return "unsupported attachment combination"
	}
	return "unknown"
}
