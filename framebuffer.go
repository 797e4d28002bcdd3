package violet

import "fmt"

// Framebuffer owns one device-side framebuffer object. Attachment,
// clearing and drawing all require the FramebufferBinding guard.
type Framebuffer struct {
	handle
	isDefault bool
}

// NewFramebuffer creates an empty offscreen framebuffer. It is incomplete
// until at least one color attachment with storage is attached.
func NewFramebuffer(dev Device) (*Framebuffer, error) {
	name, err := dev.CreateFramebuffer()
	if err != nil {
		return nil, err
	}
	return &Framebuffer{
		handle: handle{dev: dev, name: name, kind: KindFramebuffer},
	}, nil
}

// DefaultFramebuffer returns a handle for the device's default render
// target (the window surface, or the headless backbuffer). It is always
// complete and cannot be released.
func DefaultFramebuffer(dev Device) *Framebuffer {
	return &Framebuffer{
		handle:    handle{dev: dev, name: 0, kind: KindFramebuffer},
		isDefault: true,
	}
}

// Bind makes this framebuffer the active draw target and returns the
// guard required by render-pass operations.
func (f *Framebuffer) Bind() (*FramebufferBinding, error) {
	if !f.valid() {
		return nil, errReleased("Framebuffer.Bind", KindFramebuffer)
	}
	f.dev.BindFramebuffer(f.name)
	return &FramebufferBinding{fb: f}, nil
}

// Release frees the device framebuffer. Releasing the default framebuffer
// is a no-op.
func (f *Framebuffer) Release() {
	if f.isDefault {
		return
	}
	f.release(f.dev.DeleteFramebuffer)
}

// FramebufferBinding proves a Framebuffer is the active draw target.
// Material draws and screen passes take it as an explicit parameter, so a
// render pass cannot be written without naming its target.
type FramebufferBinding struct {
	fb *Framebuffer
}

// Framebuffer returns the bound framebuffer.
func (fbb *FramebufferBinding) Framebuffer() *Framebuffer { return fbb.fb }

// AttachColor attaches a texture to color slot i. The texture must have
// storage before the framebuffer can be complete.
func (fbb *FramebufferBinding) AttachColor(i int, tex *Texture) error {
	if !fbb.fb.valid() {
		return errReleased("FramebufferBinding.AttachColor", KindFramebuffer)
	}
	if !tex.valid() {
		return errReleased("FramebufferBinding.AttachColor", KindTexture)
	}
	return fbb.fb.dev.FramebufferTexture(ColorAttachment(i), tex.name)
}

// AttachDepth attaches a depth texture.
func (fbb *FramebufferBinding) AttachDepth(tex *Texture) error {
	if !fbb.fb.valid() {
		return errReleased("FramebufferBinding.AttachDepth", KindFramebuffer)
	}
	if !tex.valid() {
		return errReleased("FramebufferBinding.AttachDepth", KindTexture)
	}
	return fbb.fb.dev.FramebufferTexture(AttachDepth, tex.name)
}

// Status reports framebuffer completeness. Incompleteness is reported,
// never corrected.
func (fbb *FramebufferBinding) Status() FramebufferStatus {
	return fbb.fb.dev.FramebufferStatus()
}

// CheckComplete returns a DeviceError describing the incompleteness
// reason, or nil when the framebuffer is ready to render into.
func (fbb *FramebufferBinding) CheckComplete() error {
	if s := fbb.Status(); s != FramebufferComplete {
		return &DeviceError{
			Op:     "FramebufferBinding.CheckComplete",
			Reason: fmt.Sprintf("framebuffer %s", s),
		}
	}
	return nil
}

// SetClearColor sets the color used by Clear for the color buffer.
func (fbb *FramebufferBinding) SetClearColor(r, g, b, a float32) {
	fbb.fb.dev.ClearColor(r, g, b, a)
}

// SetClearDepth sets the depth value used by Clear for the depth buffer.
func (fbb *FramebufferBinding) SetClearDepth(d float32) {
	fbb.fb.dev.ClearDepth(d)
}

// Clear clears the selected buffers to the configured values.
func (fbb *FramebufferBinding) Clear(mask ClearMask) {
	fbb.fb.dev.Clear(mask)
}

// Viewport sets the drawable rectangle for subsequent draws.
func (fbb *FramebufferBinding) Viewport(x, y, width, height int) {
	fbb.fb.dev.Viewport(x, y, width, height)
}

// SetBlend selects how fragment output combines with this target.
func (fbb *FramebufferBinding) SetBlend(mode BlendMode) {
	fbb.fb.dev.SetBlend(mode)
}

// SetDepthTest enables or disables depth testing.
func (fbb *FramebufferBinding) SetDepthTest(enabled bool) {
	fbb.fb.dev.SetDepthTest(enabled)
}

// DrawElements issues an indexed draw into this target using the
// currently bound vertex array and program. A render pass may only
// proceed when the framebuffer is complete.
func (fbb *FramebufferBinding) DrawElements(mode DrawMode, count int) error {
	if err := fbb.CheckComplete(); err != nil {
		return err
	}
	return fbb.fb.dev.DrawElements(mode, count)
}

// ReadPixels returns the RGBA float contents of the given rectangle,
// row-major from the lower-left corner. Intended for tests and captures.
func (fbb *FramebufferBinding) ReadPixels(x, y, width, height int) ([]float32, error) {
	return fbb.fb.dev.ReadPixels(x, y, width, height)
}
