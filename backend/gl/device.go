// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gl implements violet.Device over an OpenGL 4.1 core context.
//
// The context must be created and made current by the front-end (GLFW,
// SDL, ...) before New is called, and all device calls must stay on the
// thread that owns the context.
package gl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/violet"
	"github.com/gogpu/violet/backend"
)

func init() {
	backend.Register(backend.BackendGL, func() (violet.Device, error) {
		return New()
	})
}

// Device drives a real OpenGL context. It is stateless on the Go side:
// all state lives in the context itself.
type Device struct{}

// New loads the OpenGL function pointers from the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, &violet.DeviceError{Op: "gl.Init", Reason: err.Error()}
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	violet.Logger().Info("gl: context initialized", "version", version)
	return &Device{}, nil
}

// checkError converts the GL error flag into a *violet.DeviceError.
func checkError(op string) error {
	switch code := gl.GetError(); code {
	case gl.NO_ERROR:
		return nil
	case gl.INVALID_ENUM:
		return &violet.DeviceError{Op: op, Reason: "invalid enum"}
	case gl.INVALID_VALUE:
		return &violet.DeviceError{Op: op, Reason: "invalid value"}
	case gl.INVALID_OPERATION:
		return &violet.DeviceError{Op: op, Reason: "invalid operation"}
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return &violet.DeviceError{Op: op, Reason: "invalid framebuffer operation"}
	case gl.OUT_OF_MEMORY:
		return &violet.DeviceError{Op: op, Reason: "out of memory"}
	default:
		return &violet.DeviceError{Op: op, Reason: fmt.Sprintf("error code 0x%04x", code)}
	}
}

func bufferTarget(role violet.BufferRole) uint32 {
	switch role {
	case violet.BufferIndex:
		return gl.ELEMENT_ARRAY_BUFFER
	case violet.BufferUniform:
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

// --- Buffers ---

func (d *Device) CreateBuffer() (uint32, error) {
	var name uint32
	gl.GenBuffers(1, &name)
	return name, checkError("CreateBuffer")
}

func (d *Device) DeleteBuffer(name uint32) {
	gl.DeleteBuffers(1, &name)
}

func (d *Device) BindBuffer(role violet.BufferRole, name uint32) {
	gl.BindBuffer(bufferTarget(role), name)
}

func (d *Device) BufferData(role violet.BufferRole, data []byte, usage violet.BufferUsage) error {
	hint := uint32(gl.STATIC_DRAW)
	if usage == violet.UsageDynamic {
		hint = gl.DYNAMIC_DRAW
	}
	gl.BufferData(bufferTarget(role), len(data), gl.Ptr(data), hint)
	return checkError("BufferData")
}

func (d *Device) BindBufferRange(slot uint32, name uint32, offset, size int) error {
	gl.BindBufferRange(gl.UNIFORM_BUFFER, slot, name, offset, size)
	return checkError("BindBufferRange")
}

// --- Vertex arrays ---

func (d *Device) CreateVertexArray() (uint32, error) {
	var name uint32
	gl.GenVertexArrays(1, &name)
	return name, checkError("CreateVertexArray")
}

func (d *Device) DeleteVertexArray(name uint32) {
	gl.DeleteVertexArrays(1, &name)
}

func (d *Device) BindVertexArray(name uint32) {
	gl.BindVertexArray(name)
}

func (d *Device) VertexAttrib(index, size, stride, offset int) {
	gl.EnableVertexAttribArray(uint32(index))
	gl.VertexAttribPointerWithOffset(uint32(index), int32(size), gl.FLOAT, false, int32(stride), uintptr(offset))
}

// --- Textures ---

func (d *Device) CreateTexture() (uint32, error) {
	var name uint32
	gl.GenTextures(1, &name)
	return name, checkError("CreateTexture")
}

func (d *Device) DeleteTexture(name uint32) {
	gl.DeleteTextures(1, &name)
}

func (d *Device) ActiveTexture(unit int) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
}

func (d *Device) BindTexture(name uint32) {
	gl.BindTexture(gl.TEXTURE_2D, name)
}

func texFormats(format violet.PixelFormat) (internal int32, layout, xtype uint32, err error) {
	switch format {
	case violet.FormatRGB8:
		return gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE, nil
	case violet.FormatRGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil
	case violet.FormatRGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT, nil
	case violet.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, nil
	default:
		return 0, 0, 0, &violet.DeviceError{Op: "TexImage2D", Reason: "unsupported pixel format"}
	}
}

func (d *Device) TexImage2D(width, height int, format violet.PixelFormat, pix []byte) error {
	internal, layout, xtype, err := texFormats(format)
	if err != nil {
		return err
	}
	var ptr unsafe.Pointer
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, layout, xtype, ptr)
	return checkError("TexImage2D")
}

func glFilter(mode violet.FilterMode) int32 {
	if mode == violet.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func (d *Device) TexFilter(min, mag violet.FilterMode) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(min))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(mag))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// --- Framebuffers ---

func (d *Device) CreateFramebuffer() (uint32, error) {
	var name uint32
	gl.GenFramebuffers(1, &name)
	return name, checkError("CreateFramebuffer")
}

func (d *Device) DeleteFramebuffer(name uint32) {
	gl.DeleteFramebuffers(1, &name)
}

func (d *Device) BindFramebuffer(name uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, name)
}

func (d *Device) FramebufferTexture(point violet.AttachmentPoint, texture uint32) error {
	attachment := uint32(gl.DEPTH_ATTACHMENT)
	if point != violet.AttachDepth {
		attachment = gl.COLOR_ATTACHMENT0 + uint32(point)
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, texture, 0)
	return checkError("FramebufferTexture")
}

func (d *Device) FramebufferStatus() violet.FramebufferStatus {
	switch gl.CheckFramebufferStatus(gl.FRAMEBUFFER) {
	case gl.FRAMEBUFFER_COMPLETE:
		return violet.FramebufferComplete
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return violet.FramebufferIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return violet.FramebufferMissingAttachment
	default:
		return violet.FramebufferUnsupported
	}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) ClearDepth(depth float32) {
	gl.ClearDepthf(depth)
}

func (d *Device) Clear(mask violet.ClearMask) {
	var bits uint32
	if mask&violet.ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&violet.ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) SetBlend(mode violet.BlendMode) {
	if mode == violet.BlendAdditive {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		return
	}
	gl.Disable(gl.BLEND)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (d *Device) DrawElements(mode violet.DrawMode, count int) error {
	if mode == violet.DrawWireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
	return checkError("DrawElements")
}

func (d *Device) ReadPixels(x, y, width, height int) ([]float32, error) {
	out := make([]float32, width*height*4)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.FLOAT, gl.Ptr(out))
	if err := checkError("ReadPixels"); err != nil {
		return nil, err
	}
	return out, nil
}
