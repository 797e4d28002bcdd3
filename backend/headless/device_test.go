// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"errors"
	"testing"

	"github.com/gogpu/violet"
)

func TestBufferData_RequiresBinding(t *testing.T) {
	d := New(1, 1)
	var derr *violet.DeviceError
	if err := d.BufferData(violet.BufferVertex, []byte{1}, violet.UsageStatic); !errors.As(err, &derr) {
		t.Fatalf("BufferData without binding = %v, want *DeviceError", err)
	}

	name, err := d.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	d.BindBuffer(violet.BufferVertex, name)
	if err := d.BufferData(violet.BufferVertex, []byte{1, 2, 3}, violet.UsageStatic); err != nil {
		t.Fatalf("BufferData: %v", err)
	}
}

func TestBindBufferRange_Validation(t *testing.T) {
	d := New(1, 1)
	name, _ := d.CreateBuffer()
	d.BindBuffer(violet.BufferUniform, name)
	if err := d.BufferData(violet.BufferUniform, make([]byte, 96), violet.UsageDynamic); err != nil {
		t.Fatalf("BufferData: %v", err)
	}

	tests := []struct {
		name         string
		offset, size int
		wantErr      bool
	}{
		{"full", 0, 96, false},
		{"second element", 48, 48, false},
		{"past end", 64, 48, true},
		{"zero size", 0, 0, true},
		{"negative offset", -16, 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.BindBufferRange(0, name, tt.offset, tt.size)
			if (err != nil) != tt.wantErr {
				t.Errorf("BindBufferRange(%d,%d) error = %v, wantErr %v",
					tt.offset, tt.size, err, tt.wantErr)
			}
		})
	}

	var derr *violet.DeviceError
	if err := d.BindBufferRange(0, name+99, 0, 16); !errors.As(err, &derr) {
		t.Errorf("BindBufferRange on unknown buffer = %v, want *DeviceError", err)
	}
}

func TestTexImage2D_ByteConversion(t *testing.T) {
	d := New(1, 1)
	name, _ := d.CreateTexture()
	d.ActiveTexture(0)
	d.BindTexture(name)

	if err := d.TexImage2D(1, 1, violet.FormatRGBA8, []byte{255, 0, 51, 255}); err != nil {
		t.Fatalf("TexImage2D: %v", err)
	}
	got := d.sample(0, 0.5, 0.5)
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("sample = %v, want r=1 g=0", got)
	}
	if got[2] < 0.19 || got[2] > 0.21 {
		t.Errorf("blue channel = %v, want 51/255", got[2])
	}

	// RGB8 uploads force alpha to 1.
	if err := d.TexImage2D(1, 1, violet.FormatRGB8, []byte{0, 0, 0}); err != nil {
		t.Fatalf("TexImage2D rgb: %v", err)
	}
	if got := d.sample(0, 0.5, 0.5); got[3] != 1 {
		t.Errorf("rgb8 alpha = %v, want 1", got[3])
	}

	var derr *violet.DeviceError
	if err := d.TexImage2D(1, 1, violet.FormatRGBA16F, []byte{1, 2, 3, 4}); !errors.As(err, &derr) {
		t.Errorf("pixel upload to storage-only format = %v, want *DeviceError", err)
	}
	if err := d.TexImage2D(0, 4, violet.FormatRGBA8, nil); !errors.As(err, &derr) {
		t.Errorf("zero-width storage = %v, want *DeviceError", err)
	}
}

func TestClearAndReadPixels(t *testing.T) {
	d := New(3, 2)
	d.ClearColor(0.5, 0.25, 0.125, 1)
	d.Clear(violet.ClearColorBuffer)

	px, err := d.ReadPixels(0, 0, 3, 2)
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if len(px) != 3*2*4 {
		t.Fatalf("pixel count = %d, want %d", len(px), 3*2*4)
	}
	for p := 0; p < 6; p++ {
		if px[p*4] != 0.5 || px[p*4+1] != 0.25 {
			t.Fatalf("pixel %d = %v, want cleared color", p, px[p*4:p*4+4])
		}
	}

	// Depth-only clears leave color alone.
	d.ClearColor(0, 0, 0, 0)
	d.Clear(violet.ClearDepthBuffer)
	px, _ = d.ReadPixels(0, 0, 1, 1)
	if px[0] != 0.5 {
		t.Errorf("depth clear touched color: %v", px)
	}
}

func TestBlendPixel(t *testing.T) {
	d := New(1, 1)
	tex := d.backbuffer
	tex.pix[0], tex.pix[1], tex.pix[2] = 0.25, 0.25, 0.25

	d.SetBlend(violet.BlendAdditive)
	d.blendPixel(tex, 0, [3]float32{0.5, 0, 0.25})
	if tex.pix[0] != 0.75 || tex.pix[1] != 0.25 || tex.pix[2] != 0.5 {
		t.Errorf("additive blend = %v", tex.pix[:3])
	}
	if tex.pix[3] != 1 {
		t.Errorf("alpha = %v, want 1", tex.pix[3])
	}

	d.SetBlend(violet.BlendReplace)
	d.blendPixel(tex, 0, [3]float32{0.1, 0.2, 0.3})
	if tex.pix[0] != 0.1 || tex.pix[2] != 0.3 {
		t.Errorf("replace blend = %v", tex.pix[:3])
	}
}

func TestClipViewport(t *testing.T) {
	tex := &texture{width: 8, height: 8}
	tests := []struct {
		name string
		vp   [4]int
		want [4]int
	}{
		{"inside", [4]int{1, 2, 3, 4}, [4]int{1, 2, 4, 6}},
		{"oversized", [4]int{0, 0, 100, 100}, [4]int{0, 0, 8, 8}},
		{"negative origin", [4]int{-4, -4, 8, 8}, [4]int{0, 0, 4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1 := clipViewport(tt.vp, tex)
			if got := [4]int{x0, y0, x1, y1}; got != tt.want {
				t.Errorf("clipViewport(%v) = %v, want %v", tt.vp, got, tt.want)
			}
		})
	}
}

func TestCompileProgram_KindDetection(t *testing.T) {
	d := New(1, 1)
	tests := []struct {
		name     string
		vert     string
		frag     string
		wantKind programKind
	}{
		{
			"mesh",
			"uniform mat4 view_proj;\nvoid main() {}",
			"void main() {}",
			progMesh,
		},
		{
			"tonemap",
			"void main() {}",
			"uniform sampler2D in_color;\nuniform float exposure;\nvoid main() {}",
			progTonemap,
		},
		{
			"unknown",
			"void main() {}",
			"void main() {}",
			progUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := d.CompileProgram(tt.vert, tt.frag)
			if err != nil {
				t.Fatalf("CompileProgram: %v", err)
			}
			if got := d.programs[name].kind; got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestCompileProgram_MissingMain(t *testing.T) {
	d := New(1, 1)
	_, err := d.CompileProgram("void main() {}", "float helper() { return 1.0; }")
	var cerr *violet.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *CompileError", err)
	}
	if cerr.Stage != "fragment" {
		t.Errorf("Stage = %q, want fragment", cerr.Stage)
	}
	if cerr.Log == "" {
		t.Error("empty diagnostic log")
	}
}

func TestUniformLocation_SourceDriven(t *testing.T) {
	d := New(1, 1)
	name, err := d.CompileProgram("uniform mat4 view_proj;\nvoid main() {}", "uniform vec3 color;\nvoid main() {}")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}

	if loc := d.UniformLocation(name, "color"); loc < 0 {
		t.Error("color uniform not found")
	}
	if loc := d.UniformLocation(name, "does_not_exist"); loc >= 0 {
		t.Errorf("location %d for absent uniform, want -1", loc)
	}
	// Stable across lookups.
	a := d.UniformLocation(name, "view_proj")
	b := d.UniformLocation(name, "view_proj")
	if a != b {
		t.Errorf("locations differ across lookups: %d vs %d", a, b)
	}
}

func TestUniformBlockBinding_OnlyLitMeshLight(t *testing.T) {
	d := New(1, 1)
	mesh, err := d.CompileProgram("uniform mat4 view_proj;\nvoid main() {}", "void main() {}")
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if err := d.UniformBlockBinding(mesh, "Light", 0); err != nil {
		t.Errorf("Light block on lit mesh program: %v", err)
	}
	var derr *violet.DeviceError
	if err := d.UniformBlockBinding(mesh, "Bones", 0); !errors.As(err, &derr) {
		t.Errorf("unknown block = %v, want *DeviceError", err)
	}

	unlit, err := d.CompileProgram(
		"uniform mat4 view_proj;\nvoid main() {}",
		"#define UNLIT\nvoid main() {}",
	)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if err := d.UniformBlockBinding(unlit, "Light", 0); !errors.As(err, &derr) {
		t.Errorf("Light block on unlit program = %v, want *DeviceError", err)
	}
}

func TestDrawElements_RequiresProgram(t *testing.T) {
	d := New(2, 2)
	var derr *violet.DeviceError
	if err := d.DrawElements(violet.DrawTriangles, 3); !errors.As(err, &derr) {
		t.Fatalf("draw without program = %v, want *DeviceError", err)
	}
}
