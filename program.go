package violet

import (
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderBuilder assembles shader source from fragments and preprocessor
// defines. A "#version" line found in any added source is hoisted to the
// top of the assembled text, with "#define" lines injected directly after
// it, since the preprocessor requires the version directive to come first.
type ShaderBuilder struct {
	sources     []string
	defines     map[string]struct{}
	versionLine string
}

// AddSource appends a source fragment, extracting its version line if it
// leads with one. Empty source is a configuration error.
func (b *ShaderBuilder) AddSource(source string) error {
	var lines []string
	for _, l := range strings.Split(source, "\n") {
		if t := strings.TrimRight(l, "\r"); strings.TrimSpace(t) != "" || len(lines) > 0 {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return &ConfigurationError{Reason: "empty shader source"}
	}
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "#version") {
		b.versionLine = strings.TrimSpace(lines[0])
		lines = lines[1:]
	}
	b.sources = append(b.sources, strings.Join(lines, "\n"))
	return nil
}

// Define adds a preprocessor define. Duplicates collapse.
func (b *ShaderBuilder) Define(name string) {
	if b.defines == nil {
		b.defines = make(map[string]struct{})
	}
	b.defines[name] = struct{}{}
}

// Build returns the assembled source: version line, defines in sorted
// order, then the source fragments in the order added.
func (b *ShaderBuilder) Build() (string, error) {
	if len(b.sources) == 0 {
		return "", &ConfigurationError{Reason: "shader builder has no sources"}
	}
	var parts []string
	if b.versionLine != "" {
		parts = append(parts, b.versionLine)
	}
	names := make([]string, 0, len(b.defines))
	for name := range b.defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, "#define "+name)
	}
	parts = append(parts, b.sources...)
	src := strings.Join(parts, "\n\n")
	Logger().Debug("violet: shader assembled", "defines", names, "bytes", len(src))
	return src, nil
}

// ShaderProgram owns one compiled and linked device program.
type ShaderProgram struct {
	handle
}

// CompileProgram assembles both stages with the given defines, compiles
// and links them. Failure returns a *CompileError carrying the raw
// compiler diagnostic; the caller can always recover (fall back to another
// variant, or surface the log).
func CompileProgram(dev Device, vertexSrc, fragmentSrc string, defines ...string) (*ShaderProgram, error) {
	assemble := func(src string) (string, error) {
		var b ShaderBuilder
		if err := b.AddSource(src); err != nil {
			return "", err
		}
		for _, d := range defines {
			b.Define(d)
		}
		return b.Build()
	}
	vsrc, err := assemble(vertexSrc)
	if err != nil {
		return nil, err
	}
	fsrc, err := assemble(fragmentSrc)
	if err != nil {
		return nil, err
	}
	name, err := dev.CompileProgram(vsrc, fsrc)
	if err != nil {
		return nil, err
	}
	return &ShaderProgram{
		handle: handle{dev: dev, name: name, kind: KindProgram},
	}, nil
}

// Bind makes this program current and returns the guard required to set
// uniforms and issue draws with it.
func (p *ShaderProgram) Bind() (*ProgramBinding, error) {
	if !p.valid() {
		return nil, errReleased("ShaderProgram.Bind", KindProgram)
	}
	p.dev.UseProgram(p.name)
	return &ProgramBinding{prog: p}, nil
}

// Release frees the device program. Safe to call more than once.
func (p *ShaderProgram) Release() {
	p.release(p.dev.DeleteProgram)
}

// ProgramBinding proves a ShaderProgram is the current program. Uniform
// setters tolerate unknown names with a warn-level log rather than an
// error: drivers routinely optimize out unused uniforms, and a material
// variant compiled without a texture path legitimately lacks its sampler.
type ProgramBinding struct {
	prog *ShaderProgram
}

// Program returns the bound program.
func (pb *ProgramBinding) Program() *ShaderProgram { return pb.prog }

func (pb *ProgramBinding) location(name string) (int32, bool) {
	loc := pb.prog.dev.UniformLocation(pb.prog.name, name)
	if loc < 0 {
		Logger().Warn("violet: unknown uniform", "name", name, "program", pb.prog.name)
		return 0, false
	}
	return loc, true
}

// SetInt sets an int (or sampler unit) uniform.
func (pb *ProgramBinding) SetInt(name string, v int32) {
	if loc, ok := pb.location(name); ok {
		pb.prog.dev.Uniform1i(loc, v)
	}
}

// SetFloat sets a float uniform.
func (pb *ProgramBinding) SetFloat(name string, v float32) {
	if loc, ok := pb.location(name); ok {
		pb.prog.dev.Uniform1f(loc, v)
	}
}

// SetVec3 sets a vec3 uniform.
func (pb *ProgramBinding) SetVec3(name string, v mgl32.Vec3) {
	if loc, ok := pb.location(name); ok {
		pb.prog.dev.Uniform3f(loc, v.X(), v.Y(), v.Z())
	}
}

// SetMat4 sets a mat4 uniform, column-major.
func (pb *ProgramBinding) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := pb.location(name); ok {
		pb.prog.dev.UniformMatrix4(loc, [16]float32(m))
	}
}

// BindUniformBlock routes the named uniform block to an indexed slot. A
// uniform-role buffer range bound to the same slot supplies the data.
func (pb *ProgramBinding) BindUniformBlock(block string, slot uint32) error {
	if !pb.prog.valid() {
		return errReleased("ProgramBinding.BindUniformBlock", KindProgram)
	}
	return pb.prog.dev.UniformBlockBinding(pb.prog.name, block, slot)
}
