package violet

import _ "embed"

// The GLSL programs are opaque payloads to the core: it assembles,
// compiles and binds them but never interprets them. Replace them per
// material through WithVariants.

//go:embed shaders/mesh.vert.glsl
var meshVertexSrc string

//go:embed shaders/mesh.frag.glsl
var meshFragmentSrc string

//go:embed shaders/screen.vert.glsl
var screenVertexSrc string

//go:embed shaders/tonemap.frag.glsl
var tonemapFragmentSrc string

// TonemapShader returns the built-in Reinhard tone-mapping fragment
// source, usable with NewScreenPass.
func TonemapShader() string { return tonemapFragmentSrc }
