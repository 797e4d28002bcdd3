package violet

// ResourceKind tags the five kinds of device-owned objects.
type ResourceKind uint8

const (
	KindBuffer ResourceKind = iota
	KindTexture
	KindFramebuffer
	KindProgram
	KindUniformBlock
)

func (k ResourceKind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindFramebuffer:
		return "framebuffer"
	case KindProgram:
		return "program"
	case KindUniformBlock:
		return "uniform block"
	}
	return "unknown"
}

// handle is the ownership core embedded in every concrete resource type.
// It owns exactly one device-side object: the name is valid device-side
// from successful creation until Release, and Release frees it exactly
// once. Handles are exclusively owned and never shared across components.
//
// The binding-guard contract is built on top of handles: a Bind call on a
// concrete resource produces a guard type specific to that resource kind
// (BufferBinding, TextureBinding, ...), and every state-dependent
// operation is a method on the guard. Passing the wrong guard kind is a
// compile error, not a runtime check. Guards hold a non-owning
// back-reference; releasing a handle while one of its guards is still in
// use is a programming error that scoping must prevent (bind, use, let
// the guard go out of scope, then release).
//
// Discarding a guard leaves the device binding in place. Binding another
// object of the same kind supersedes any earlier live guard for that
// kind: the device has one active slot per kind/target and the most
// recent bind wins. This aliasing is a documented limitation, not
// something the guard model prevents.
type handle struct {
	dev      Device
	name     uint32
	kind     ResourceKind
	released bool
}

// valid reports whether the device object is still live.
func (h *handle) valid() bool { return !h.released && h.dev != nil }

// release frees the device object through del, exactly once. Further
// calls are no-ops, which keeps deferred releases safe on every early
// return path.
func (h *handle) release(del func(uint32)) {
	if h.released {
		return
	}
	h.released = true
	Logger().Debug("violet: release", "kind", h.kind.String(), "name", h.name)
	del(h.name)
	h.name = 0
}
