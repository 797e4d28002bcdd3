// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/violet"
)

// compileStage compiles one shader stage, returning the raw info log in a
// *violet.CompileError on failure.
func compileStage(stage string, xtype uint32, src string) (uint32, error) {
	shader := gl.CreateShader(xtype)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &violet.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileStage("vertex", gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage("fragment", gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, &violet.CompileError{Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}
	return prog, nil
}

func (d *Device) DeleteProgram(name uint32) {
	gl.DeleteProgram(name)
}

func (d *Device) UseProgram(name uint32) {
	gl.UseProgram(name)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (d *Device) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) UniformBlockBinding(program uint32, block string, slot uint32) error {
	index := gl.GetUniformBlockIndex(program, gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		return &violet.DeviceError{Op: "UniformBlockBinding", Reason: "unknown uniform block " + block}
	}
	gl.UniformBlockBinding(program, index, slot)
	return checkError("UniformBlockBinding")
}
