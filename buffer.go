package violet

// Buffer owns one device-side buffer object used through a fixed role
// (vertex, index or uniform). All uploads go through a BufferBinding
// obtained from Bind.
type Buffer struct {
	handle
	role BufferRole
	size int
}

// NewBuffer creates an empty device buffer for the given role.
func NewBuffer(dev Device, role BufferRole) (*Buffer, error) {
	name, err := dev.CreateBuffer()
	if err != nil {
		return nil, err
	}
	return &Buffer{
		handle: handle{dev: dev, name: name, kind: KindBuffer},
		role:   role,
	}, nil
}

// NewBufferData creates a buffer and uploads data in one step.
func NewBufferData(dev Device, role BufferRole, data []byte, usage BufferUsage) (*Buffer, error) {
	buf, err := NewBuffer(dev, role)
	if err != nil {
		return nil, err
	}
	bb, err := buf.Bind()
	if err != nil {
		buf.Release()
		return nil, err
	}
	if err := bb.Upload(data, usage); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// Role returns the binding target this buffer is used through.
func (b *Buffer) Role() BufferRole { return b.role }

// Size returns the byte size of the last successful upload.
func (b *Buffer) Size() int { return b.size }

// Bind makes this buffer the active one for its role and returns the
// guard required by upload operations.
func (b *Buffer) Bind() (*BufferBinding, error) {
	if !b.valid() {
		return nil, errReleased("Buffer.Bind", KindBuffer)
	}
	b.dev.BindBuffer(b.role, b.name)
	return &BufferBinding{buf: b}, nil
}

// Release frees the device buffer. Safe to call more than once.
func (b *Buffer) Release() {
	b.release(b.dev.DeleteBuffer)
}

// BufferBinding proves a Buffer is the currently active object for its
// role. It is a transient, non-owning borrow: discarding it leaves the
// device binding in place.
type BufferBinding struct {
	buf *Buffer
}

// Buffer returns the bound buffer.
func (bb *BufferBinding) Buffer() *Buffer { return bb.buf }

// Upload replaces the buffer contents. Zero-length uploads are rejected:
// the device would accept them but every caller that hits one has a bug
// upstream (empty tessellation, empty light list).
func (bb *BufferBinding) Upload(data []byte, usage BufferUsage) error {
	if !bb.buf.valid() {
		return errReleased("BufferBinding.Upload", KindBuffer)
	}
	if len(data) == 0 {
		return &DeviceError{Op: "BufferBinding.Upload", Reason: "zero-length upload"}
	}
	if err := bb.buf.dev.BufferData(bb.buf.role, data, usage); err != nil {
		return err
	}
	bb.buf.size = len(data)
	Logger().Debug("violet: buffer upload",
		"role", bb.buf.role.String(), "name", bb.buf.name, "bytes", len(data))
	return nil
}
