package violet

// RenderBuffers is the HDR pipeline target: geometry renders into an
// offscreen framebuffer with a half-float color attachment and a float
// depth attachment, then BlitTonemap compresses the accumulated linear
// color into the destination with exposure scaling and the Reinhard
// operator. All lights accumulate into the one buffer; tone mapping runs
// once at the end, not per light.
type RenderBuffers struct {
	dev      Device
	fbo      *Framebuffer
	color    *Texture
	depth    *Texture
	tonemap  *ScreenPass
	exposure float32
	width    int
	height   int
	released bool
}

// NewRenderBuffers allocates the HDR target at the given size.
func NewRenderBuffers(dev Device, width, height int, opts ...RenderBufferOption) (*RenderBuffers, error) {
	cfg := renderBufferOptions{
		exposure:   1,
		tonemapSrc: tonemapFragmentSrc,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if width < 1 || height < 1 {
		return nil, &ConfigurationError{Reason: "render buffers need positive dimensions"}
	}

	rb := &RenderBuffers{dev: dev, exposure: cfg.exposure, width: width, height: height}

	// Release everything allocated so far on any failed step.
	fail := func(err error) (*RenderBuffers, error) {
		rb.Release()
		return nil, err
	}

	var err error
	if rb.color, err = NewTexture(dev); err != nil {
		return fail(err)
	}
	tb, err := rb.color.Bind()
	if err != nil {
		return fail(err)
	}
	if err := tb.ReserveStorage(width, height, FormatRGBA16F); err != nil {
		return fail(err)
	}
	if err := tb.SetFiltering(FilterLinear); err != nil {
		return fail(err)
	}

	if rb.depth, err = NewTexture(dev); err != nil {
		return fail(err)
	}
	if tb, err = rb.depth.Bind(); err != nil {
		return fail(err)
	}
	if err := tb.ReserveStorage(width, height, FormatDepth32F); err != nil {
		return fail(err)
	}

	if rb.fbo, err = NewFramebuffer(dev); err != nil {
		return fail(err)
	}
	fbb, err := rb.fbo.Bind()
	if err != nil {
		return fail(err)
	}
	if err := fbb.AttachColor(0, rb.color); err != nil {
		return fail(err)
	}
	if err := fbb.AttachDepth(rb.depth); err != nil {
		return fail(err)
	}
	if err := fbb.CheckComplete(); err != nil {
		return fail(err)
	}

	if rb.tonemap, err = NewScreenPass(dev, cfg.tonemapSrc); err != nil {
		return fail(err)
	}
	rb.color.AssignUnit(colorUnit)

	Logger().Info("violet: render buffers ready", "width", width, "height", height)
	return rb, nil
}

// Exposure returns the exposure applied before tone mapping.
func (rb *RenderBuffers) Exposure() float32 { return rb.exposure }

// SetExposure adjusts the exposure applied before tone mapping.
func (rb *RenderBuffers) SetExposure(v float32) { rb.exposure = v }

// ColorTexture returns the HDR color attachment.
func (rb *RenderBuffers) ColorTexture() *Texture { return rb.color }

// Bind makes the HDR framebuffer the draw target, sizes the viewport and
// clears color and depth, returning the guard geometry passes require.
func (rb *RenderBuffers) Bind() (*FramebufferBinding, error) {
	if rb.released {
		return nil, errReleased("RenderBuffers.Bind", KindFramebuffer)
	}
	fbb, err := rb.fbo.Bind()
	if err != nil {
		return nil, err
	}
	fbb.Viewport(0, 0, rb.width, rb.height)
	fbb.SetDepthTest(true)
	fbb.SetClearColor(0, 0, 0, 1)
	fbb.SetClearDepth(1)
	fbb.Clear(ClearColorBuffer | ClearDepthBuffer)
	return fbb, nil
}

// BlitTonemap tone-maps the accumulated HDR color into the destination:
// out = (exposure·c) / (1 + luminance(exposure·c)).
func (rb *RenderBuffers) BlitTonemap(dst *FramebufferBinding) error {
	if rb.released {
		return errReleased("RenderBuffers.BlitTonemap", KindFramebuffer)
	}
	pb, err := rb.tonemap.Program()
	if err != nil {
		return err
	}
	pb.SetInt("in_color", colorUnit)
	pb.SetFloat("exposure", rb.exposure)
	if _, err := rb.color.Bind(); err != nil {
		return err
	}
	dst.SetBlend(BlendReplace)
	dst.SetDepthTest(false)
	return rb.tonemap.Draw(dst)
}

// Resize reallocates both attachments at the new size. Contents are
// discarded.
func (rb *RenderBuffers) Resize(width, height int) error {
	if rb.released {
		return errReleased("RenderBuffers.Resize", KindFramebuffer)
	}
	if width < 1 || height < 1 {
		return &ConfigurationError{Reason: "render buffers need positive dimensions"}
	}
	tb, err := rb.color.Bind()
	if err != nil {
		return err
	}
	if err := tb.Resize(width, height); err != nil {
		return err
	}
	if tb, err = rb.depth.Bind(); err != nil {
		return err
	}
	if err := tb.Resize(width, height); err != nil {
		return err
	}
	rb.width, rb.height = width, height
	Logger().Info("violet: render buffers resized", "width", width, "height", height)
	return nil
}

// Release frees the framebuffer, both attachments and the tone-mapping
// pass. Safe to call more than once.
func (rb *RenderBuffers) Release() {
	if rb.released {
		return
	}
	rb.released = true
	if rb.tonemap != nil {
		rb.tonemap.Release()
	}
	if rb.fbo != nil {
		rb.fbo.Release()
	}
	if rb.color != nil {
		rb.color.Release()
	}
	if rb.depth != nil {
		rb.depth.Release()
	}
}
