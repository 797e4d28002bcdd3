// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless implements violet.Device as a deterministic CPU
// emulation. It exists for tests and CI machines without a GPU: the full
// binding state machine (buffers, textures, framebuffers, programs,
// uniform slots, blending) behaves like the real device, while draw calls
// are interpreted rather than rasterized.
//
// Interpretation model: the device recognizes the library's built-in
// programs by their source text. Mesh programs shade one representative
// fragment (origin position, +Z normal, centered uv) and flat-fill the
// viewport with the result, honoring the blend mode — enough to verify
// light accumulation, variant selection and tone mapping numerically.
// The tone-mapping program is evaluated per pixel. Unknown programs fill
// with debug magenta. Wireframe draws fill like triangle draws.
package headless

import (
	"fmt"

	"github.com/gogpu/violet"
	"github.com/gogpu/violet/backend"
)

func init() {
	backend.Register(backend.BackendHeadless, func() (violet.Device, error) {
		return New(640, 480), nil
	})
}

type buffer struct {
	data []byte
}

type texture struct {
	width  int
	height int
	format violet.PixelFormat
	// pix is RGBA float storage, len width*height*4. Depth textures keep
	// the same shape with the value in the R channel.
	pix []float32
}

type framebuffer struct {
	color map[int]uint32
	depth uint32
}

type vertexArray struct {
	element uint32
}

type bufferRange struct {
	name   uint32
	offset int
	size   int
}

// Device is a headless violet.Device. Not safe for concurrent use, like
// every device.
type Device struct {
	nextName uint32

	buffers      map[uint32]*buffer
	textures     map[uint32]*texture
	framebuffers map[uint32]*framebuffer
	programs     map[uint32]*program
	arrays       map[uint32]*vertexArray

	boundBuffer  [3]uint32 // per role
	boundArray   uint32
	activeUnit   int
	unitTextures map[int]uint32
	boundFB      uint32
	curProgram   uint32
	uniformSlots map[uint32]bufferRange

	clearColor [4]float32
	clearDepth float32
	viewport   [4]int
	blend      violet.BlendMode
	depthTest  bool

	// backbuffer is the default framebuffer's color storage.
	backbuffer *texture
}

// New creates a headless device whose default framebuffer is
// width×height.
func New(width, height int) *Device {
	d := &Device{
		buffers:      make(map[uint32]*buffer),
		textures:     make(map[uint32]*texture),
		framebuffers: make(map[uint32]*framebuffer),
		programs:     make(map[uint32]*program),
		arrays:       make(map[uint32]*vertexArray),
		unitTextures: make(map[int]uint32),
		uniformSlots: make(map[uint32]bufferRange),
		clearDepth:   1,
		backbuffer: &texture{
			width:  width,
			height: height,
			format: violet.FormatRGBA16F,
			pix:    make([]float32, width*height*4),
		},
	}
	d.viewport = [4]int{0, 0, width, height}
	return d
}

func (d *Device) alloc() uint32 {
	d.nextName++
	return d.nextName
}

// --- Buffers ---

func (d *Device) CreateBuffer() (uint32, error) {
	name := d.alloc()
	d.buffers[name] = &buffer{}
	return name, nil
}

func (d *Device) DeleteBuffer(name uint32) {
	delete(d.buffers, name)
}

func (d *Device) BindBuffer(role violet.BufferRole, name uint32) {
	d.boundBuffer[role] = name
	if role == violet.BufferIndex && d.boundArray != 0 {
		// A VAO captures the element buffer binding, like a GL VAO.
		d.arrays[d.boundArray].element = name
	}
}

func (d *Device) BufferData(role violet.BufferRole, data []byte, usage violet.BufferUsage) error {
	buf, ok := d.buffers[d.boundBuffer[role]]
	if !ok {
		return &violet.DeviceError{Op: "BufferData", Reason: "no buffer bound for " + role.String()}
	}
	buf.data = append(buf.data[:0], data...)
	return nil
}

func (d *Device) BindBufferRange(slot uint32, name uint32, offset, size int) error {
	buf, ok := d.buffers[name]
	if !ok {
		return &violet.DeviceError{Op: "BindBufferRange", Reason: "invalid buffer object"}
	}
	if offset < 0 || size <= 0 || offset+size > len(buf.data) {
		return &violet.DeviceError{
			Op:     "BindBufferRange",
			Reason: fmt.Sprintf("range [%d,%d) outside buffer of %d bytes", offset, offset+size, len(buf.data)),
		}
	}
	d.uniformSlots[slot] = bufferRange{name: name, offset: offset, size: size}
	return nil
}

// --- Vertex arrays ---

func (d *Device) CreateVertexArray() (uint32, error) {
	name := d.alloc()
	d.arrays[name] = &vertexArray{}
	return name, nil
}

func (d *Device) DeleteVertexArray(name uint32) {
	delete(d.arrays, name)
}

func (d *Device) BindVertexArray(name uint32) {
	d.boundArray = name
}

func (d *Device) VertexAttrib(index, size, stride, offset int) {}

// --- Textures ---

func (d *Device) CreateTexture() (uint32, error) {
	name := d.alloc()
	d.textures[name] = &texture{}
	return name, nil
}

func (d *Device) DeleteTexture(name uint32) {
	delete(d.textures, name)
}

func (d *Device) ActiveTexture(unit int) {
	d.activeUnit = unit
}

func (d *Device) BindTexture(name uint32) {
	d.unitTextures[d.activeUnit] = name
}

func (d *Device) TexImage2D(width, height int, format violet.PixelFormat, pix []byte) error {
	tex, ok := d.textures[d.unitTextures[d.activeUnit]]
	if !ok {
		return &violet.DeviceError{Op: "TexImage2D", Reason: "no texture bound"}
	}
	if width < 1 || height < 1 {
		return &violet.DeviceError{Op: "TexImage2D", Reason: "invalid dimensions"}
	}
	storage := make([]float32, width*height*4)
	if pix != nil {
		bpp := format.BytesPerPixel()
		if bpp == 0 {
			return &violet.DeviceError{
				Op:     "TexImage2D",
				Reason: fmt.Sprintf("format %s does not accept pixel uploads", format),
			}
		}
		for p := 0; p < width*height; p++ {
			for c := 0; c < bpp; c++ {
				storage[p*4+c] = float32(pix[p*bpp+c]) / 255
			}
			if bpp == 3 {
				storage[p*4+3] = 1
			}
		}
	}
	tex.width, tex.height, tex.format, tex.pix = width, height, format, storage
	return nil
}

func (d *Device) TexFilter(min, mag violet.FilterMode) {}

// --- Framebuffers ---

func (d *Device) CreateFramebuffer() (uint32, error) {
	name := d.alloc()
	d.framebuffers[name] = &framebuffer{color: make(map[int]uint32)}
	return name, nil
}

func (d *Device) DeleteFramebuffer(name uint32) {
	delete(d.framebuffers, name)
}

func (d *Device) BindFramebuffer(name uint32) {
	d.boundFB = name
}

func (d *Device) FramebufferTexture(point violet.AttachmentPoint, tex uint32) error {
	fb, ok := d.framebuffers[d.boundFB]
	if !ok {
		return &violet.DeviceError{Op: "FramebufferTexture", Reason: "no framebuffer bound (or default bound)"}
	}
	if _, ok := d.textures[tex]; !ok {
		return &violet.DeviceError{Op: "FramebufferTexture", Reason: "invalid texture object"}
	}
	if point == violet.AttachDepth {
		fb.depth = tex
	} else {
		fb.color[int(point)] = tex
	}
	return nil
}

func (d *Device) FramebufferStatus() violet.FramebufferStatus {
	if d.boundFB == 0 {
		return violet.FramebufferComplete
	}
	fb, ok := d.framebuffers[d.boundFB]
	if !ok {
		return violet.FramebufferUnsupported
	}
	if len(fb.color) == 0 {
		return violet.FramebufferMissingAttachment
	}
	for _, name := range fb.color {
		tex, ok := d.textures[name]
		if !ok || tex.pix == nil {
			return violet.FramebufferIncompleteAttachment
		}
	}
	if fb.depth != 0 {
		tex, ok := d.textures[fb.depth]
		if !ok || tex.pix == nil {
			return violet.FramebufferIncompleteAttachment
		}
	}
	return violet.FramebufferComplete
}

// target resolves the color storage of the currently bound framebuffer.
func (d *Device) target() (*texture, error) {
	if d.boundFB == 0 {
		return d.backbuffer, nil
	}
	fb, ok := d.framebuffers[d.boundFB]
	if !ok {
		return nil, &violet.DeviceError{Op: "DrawElements", Reason: "invalid framebuffer object"}
	}
	tex, ok := d.textures[fb.color[0]]
	if !ok || tex.pix == nil {
		return nil, &violet.DeviceError{Op: "DrawElements", Reason: "framebuffer has no color storage"}
	}
	return tex, nil
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) ClearDepth(depth float32) {
	d.clearDepth = depth
}

func (d *Device) Clear(mask violet.ClearMask) {
	if mask&violet.ClearColorBuffer == 0 {
		return
	}
	tex, err := d.target()
	if err != nil {
		return
	}
	for p := 0; p < tex.width*tex.height; p++ {
		copy(tex.pix[p*4:p*4+4], d.clearColor[:])
	}
}

func (d *Device) Viewport(x, y, width, height int) {
	d.viewport = [4]int{x, y, width, height}
}

func (d *Device) SetBlend(mode violet.BlendMode) {
	d.blend = mode
}

func (d *Device) SetDepthTest(enabled bool) {
	d.depthTest = enabled
}

func (d *Device) ReadPixels(x, y, width, height int) ([]float32, error) {
	tex, err := d.target()
	if err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || x+width > tex.width || y+height > tex.height {
		return nil, &violet.DeviceError{Op: "ReadPixels", Reason: "rectangle outside framebuffer"}
	}
	out := make([]float32, 0, width*height*4)
	for row := y; row < y+height; row++ {
		start := (row*tex.width + x) * 4
		out = append(out, tex.pix[start:start+width*4]...)
	}
	return out, nil
}

// sample returns the RGBA value of the texture on the given unit at
// normalized coordinates, nearest filtering.
func (d *Device) sample(unit int, u, v float32) [4]float32 {
	tex, ok := d.textures[d.unitTextures[unit]]
	if !ok || tex.pix == nil {
		return [4]float32{}
	}
	x := int(u * float32(tex.width))
	y := int(v * float32(tex.height))
	x = min(max(x, 0), tex.width-1)
	y = min(max(y, 0), tex.height-1)
	p := (y*tex.width + x) * 4
	return [4]float32(tex.pix[p : p+4])
}

// blendPixel writes rgb into the pixel at index p per the current blend
// mode. Alpha is forced to 1, matching the opaque pipeline.
func (d *Device) blendPixel(tex *texture, p int, rgb [3]float32) {
	base := tex.pix[p : p+4]
	if d.blend == violet.BlendAdditive {
		base[0] += rgb[0]
		base[1] += rgb[1]
		base[2] += rgb[2]
	} else {
		base[0], base[1], base[2] = rgb[0], rgb[1], rgb[2]
	}
	base[3] = 1
}

// clipViewport intersects the viewport with the target extent.
func clipViewport(vp [4]int, tex *texture) (x0, y0, x1, y1 int) {
	x0 = max(vp[0], 0)
	y0 = max(vp[1], 0)
	x1 = min(vp[0]+vp[2], tex.width)
	y1 = min(vp[1]+vp[3], tex.height)
	return
}
