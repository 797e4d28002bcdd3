// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/gogpu/violet"
)

type programKind uint8

const (
	progUnknown programKind = iota
	progMesh
	progTonemap
)

type program struct {
	kind programKind
	src  string

	hasColorTex  bool
	hasNormalTex bool
	unlit        bool

	locs    map[string]int32
	nextLoc int32
	ints    map[int32]int32
	floats  map[int32]float32
	vec3s   map[int32][3]float32

	blockSlots map[string]uint32
}

// CompileProgram pattern-checks the sources instead of compiling them:
// a stage without a main entry point fails with a CompileError carrying a
// GL-style diagnostic, and recognizable built-in programs are tagged for
// interpretation at draw time.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	for stage, src := range map[string]string{"vertex": vertexSrc, "fragment": fragmentSrc} {
		if !strings.Contains(src, "void main") {
			return 0, &violet.CompileError{
				Stage: stage,
				Log:   "0:1(1): error: no function definition for 'main'",
			}
		}
	}

	p := &program{
		kind:       progUnknown,
		src:        vertexSrc + "\n" + fragmentSrc,
		locs:       make(map[string]int32),
		ints:       make(map[int32]int32),
		floats:     make(map[int32]float32),
		vec3s:      make(map[int32][3]float32),
		blockSlots: make(map[string]uint32),
	}
	switch {
	case strings.Contains(fragmentSrc, "in_color") && strings.Contains(fragmentSrc, "exposure"):
		p.kind = progTonemap
	case strings.Contains(vertexSrc, "view_proj"):
		p.kind = progMesh
	}
	p.hasColorTex = strings.Contains(fragmentSrc, "#define HAS_COLOR_TEXTURE")
	p.hasNormalTex = strings.Contains(fragmentSrc, "#define HAS_NORMAL_TEXTURE")
	p.unlit = strings.Contains(fragmentSrc, "#define UNLIT")

	name := d.alloc()
	d.programs[name] = p
	return name, nil
}

func (d *Device) DeleteProgram(name uint32) {
	delete(d.programs, name)
}

func (d *Device) UseProgram(name uint32) {
	d.curProgram = name
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	p, ok := d.programs[prog]
	if !ok {
		return -1
	}
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	// Uniforms that never appear in the source do not exist, like a real
	// compiler reports after dead-code elimination.
	if !strings.Contains(p.src, name) {
		return -1
	}
	loc := p.nextLoc
	p.nextLoc++
	p.locs[name] = loc
	return loc
}

func (d *Device) current() *program {
	return d.programs[d.curProgram]
}

func (d *Device) Uniform1i(loc int32, v int32) {
	if p := d.current(); p != nil {
		p.ints[loc] = v
	}
}

func (d *Device) Uniform1f(loc int32, v float32) {
	if p := d.current(); p != nil {
		p.floats[loc] = v
	}
}

func (d *Device) Uniform3f(loc int32, v0, v1, v2 float32) {
	if p := d.current(); p != nil {
		p.vec3s[loc] = [3]float32{v0, v1, v2}
	}
}

func (d *Device) UniformMatrix4(loc int32, m [16]float32) {}

func (d *Device) UniformBlockBinding(prog uint32, block string, slot uint32) error {
	p, ok := d.programs[prog]
	if !ok {
		return &violet.DeviceError{Op: "UniformBlockBinding", Reason: "invalid program object"}
	}
	if p.kind != progMesh || p.unlit || block != "Light" {
		return &violet.DeviceError{Op: "UniformBlockBinding", Reason: "unknown uniform block " + block}
	}
	p.blockSlots[block] = slot
	return nil
}

// uniformInt resolves a named int uniform with a zero default.
func (p *program) uniformInt(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return p.ints[loc]
	}
	return 0
}

func (p *program) uniformFloat(name string) float32 {
	if loc, ok := p.locs[name]; ok {
		return p.floats[loc]
	}
	return 0
}

func (p *program) uniformVec3(name string) [3]float32 {
	if loc, ok := p.locs[name]; ok {
		return p.vec3s[loc]
	}
	return [3]float32{}
}

// lightData reads the 48-byte std140 light element exposed on the
// program's Light slot.
func (d *Device) lightData(p *program) (kind uint32, posDir, color [3]float32, err error) {
	r, ok := d.uniformSlots[p.blockSlots["Light"]]
	if !ok {
		return 0, posDir, color, &violet.DeviceError{Op: "DrawElements", Reason: "no buffer bound to Light slot"}
	}
	buf, ok := d.buffers[r.name]
	if !ok || r.offset+48 > len(buf.data) {
		return 0, posDir, color, &violet.DeviceError{Op: "DrawElements", Reason: "Light slot range invalid"}
	}
	data := buf.data[r.offset:]
	at := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	kind = binary.LittleEndian.Uint32(data)
	posDir = [3]float32{at(16), at(20), at(24)}
	color = [3]float32{at(32), at(36), at(40)}
	return kind, posDir, color, nil
}

func normalize3(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// DrawElements interprets the current program and flat-fills the viewport
// of the bound framebuffer. See the package comment for the model.
func (d *Device) DrawElements(mode violet.DrawMode, count int) error {
	p := d.current()
	if p == nil {
		return &violet.DeviceError{Op: "DrawElements", Reason: "no program bound"}
	}
	tex, err := d.target()
	if err != nil {
		return err
	}
	x0, y0, x1, y1 := clipViewport(d.viewport, tex)

	switch p.kind {
	case progTonemap:
		unit := int(p.uniformInt("in_color"))
		exposure := p.uniformFloat("exposure")
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				u := (float32(x) + 0.5) / float32(tex.width)
				v := (float32(y) + 0.5) / float32(tex.height)
				c := d.sample(unit, u, v)
				r, g, b := c[0]*exposure, c[1]*exposure, c[2]*exposure
				luma := 0.2126*r + 0.7152*g + 0.0722*b
				d.blendPixel(tex, (y*tex.width+x)*4, [3]float32{
					r / (1 + luma), g / (1 + luma), b / (1 + luma),
				})
			}
		}
		return nil

	case progMesh:
		var albedo [3]float32
		if p.hasColorTex {
			c := d.sample(int(p.uniformInt("color")), 0.5, 0.5)
			albedo = [3]float32{c[0], c[1], c[2]}
		} else {
			albedo = p.uniformVec3("color")
		}

		rgb := albedo
		if !p.unlit {
			kind, posDir, lightColor, err := d.lightData(p)
			if err != nil {
				return err
			}
			// Representative fragment: position at the origin, normal +Z.
			normal := [3]float32{0, 0, 1}
			var intensity float32
			switch violet.LightKind(kind) {
			case violet.LightAmbient:
				intensity = 1
			case violet.LightDirectional:
				l := normalize3(posDir)
				intensity = max(-(normal[0]*l[0] + normal[1]*l[1] + normal[2]*l[2]), 0)
			case violet.LightPoint:
				l := normalize3(posDir)
				intensity = max(normal[0]*l[0]+normal[1]*l[1]+normal[2]*l[2], 0)
			default:
				return &violet.DeviceError{Op: "DrawElements", Reason: "invalid light kind in Light block"}
			}
			rgb = [3]float32{
				albedo[0] * lightColor[0] * intensity,
				albedo[1] * lightColor[1] * intensity,
				albedo[2] * lightColor[2] * intensity,
			}
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				d.blendPixel(tex, (y*tex.width+x)*4, rgb)
			}
		}
		return nil

	default:
		// Debug magenta marks draws with a program the emulation cannot
		// interpret.
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				d.blendPixel(tex, (y*tex.width+x)*4, [3]float32{1, 0, 1})
			}
		}
		return nil
	}
}
