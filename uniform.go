package violet

// UniformBlock owns a uniform-role buffer whose contents back one or more
// shader uniform blocks. Uploads enforce std140 sizing; routing the data
// into a program happens through indexed slots (BindRange on the guard
// plus BindUniformBlock on a program binding).
type UniformBlock struct {
	buf *Buffer
}

// NewUniformBlock creates an empty uniform block buffer.
func NewUniformBlock(dev Device) (*UniformBlock, error) {
	buf, err := NewBuffer(dev, BufferUniform)
	if err != nil {
		return nil, err
	}
	return &UniformBlock{buf: buf}, nil
}

// Size returns the byte size of the last successful upload.
func (u *UniformBlock) Size() int { return u.buf.Size() }

// Bind makes the block's buffer the active uniform buffer and returns the
// guard required for uploads and slot routing.
func (u *UniformBlock) Bind() (*UniformBlockBinding, error) {
	bb, err := u.buf.Bind()
	if err != nil {
		return nil, err
	}
	return &UniformBlockBinding{block: u, bb: bb}, nil
}

// Release frees the underlying device buffer. Safe to call more than once.
func (u *UniformBlock) Release() {
	u.buf.Release()
}

// UniformBlockBinding proves a UniformBlock's buffer is the active
// uniform buffer. Lit materials require one of these alongside a live
// FramebufferBinding: the two guards are distinct types, so a draw cannot
// be handed the wrong one.
type UniformBlockBinding struct {
	block *UniformBlock
	bb    *BufferBinding
}

// Block returns the bound uniform block.
func (ub *UniformBlockBinding) Block() *UniformBlock { return ub.block }

// Upload replaces the block contents with std140-packed bytes. Sizes that
// cannot satisfy std140 (empty, or not a multiple of 16) fail with a
// *LayoutError before reaching the device.
func (ub *UniformBlockBinding) Upload(packed []byte) error {
	if err := validateStd140(packed); err != nil {
		return err
	}
	return ub.bb.Upload(packed, UsageDynamic)
}

// BindRange exposes a byte range of the block to shader uniform blocks
// routed to the given slot.
func (ub *UniformBlockBinding) BindRange(slot uint32, offset, size int) error {
	if !ub.block.buf.valid() {
		return errReleased("UniformBlockBinding.BindRange", KindUniformBlock)
	}
	if offset%16 != 0 {
		return &LayoutError{Size: offset, Reason: "range offset is not a multiple of 16"}
	}
	return ub.block.buf.dev.BindBufferRange(slot, ub.block.buf.name, offset, size)
}
