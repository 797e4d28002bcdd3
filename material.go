package violet

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// lightSlot is the indexed uniform slot the Light block is routed to.
const lightSlot uint32 = 0

// Texture units used by material programs.
const (
	colorUnit  = 0
	normalUnit = 1
)

// VariantKey identifies one of the four statically known program
// permutations a material can select from.
type VariantKey struct {
	HasColorTexture  bool
	HasNormalTexture bool
}

// ShaderSources is a vertex/fragment source pair for one variant.
type ShaderSources struct {
	Vertex   string
	Fragment string
}

// VariantTable maps texture-presence permutations to shader sources.
// Variant selection is a pure function of the key; a missing entry is a
// configuration error at material construction, never at draw time.
type VariantTable map[VariantKey]ShaderSources

// DefaultVariants returns the built-in table: every permutation compiles
// the embedded mesh shaders, specialized through HAS_COLOR_TEXTURE and
// HAS_NORMAL_TEXTURE defines.
func DefaultVariants() VariantTable {
	src := ShaderSources{Vertex: meshVertexSrc, Fragment: meshFragmentSrc}
	return VariantTable{
		{false, false}: src,
		{true, false}:  src,
		{false, true}:  src,
		{true, true}:   src,
	}
}

// Material orchestrates one shaded rendering phase: it owns the program
// variant matching its texture maps and issues one draw per light with
// the blending policy the accumulation model requires.
type Material struct {
	dev       Device
	prog      *ShaderProgram
	colorTex  *Texture
	normalTex *Texture
	flatColor mgl32.Vec3
	lit       bool
	released  bool
}

// NewMaterial builds a material from options. The program variant is
// selected by which texture maps are present and compiled immediately, so
// configuration problems (missing variant, bad shader source) surface at
// construction.
func NewMaterial(dev Device, opts ...MaterialOption) (*Material, error) {
	cfg := materialOptions{
		flatColor: mgl32.Vec3{0.8, 0.8, 0.8},
		lit:       true,
		variants:  DefaultVariants(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	key := VariantKey{
		HasColorTexture:  cfg.colorTex != nil,
		HasNormalTexture: cfg.normalTex != nil,
	}
	src, ok := cfg.variants[key]
	if !ok {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("no shader variant for color_texture=%t normal_texture=%t",
				key.HasColorTexture, key.HasNormalTexture),
		}
	}

	var defines []string
	if key.HasColorTexture {
		defines = append(defines, "HAS_COLOR_TEXTURE")
	}
	if key.HasNormalTexture {
		defines = append(defines, "HAS_NORMAL_TEXTURE")
	}
	if !cfg.lit {
		defines = append(defines, "UNLIT")
	}

	prog, err := CompileProgram(dev, src.Vertex, src.Fragment, defines...)
	if err != nil {
		return nil, err
	}

	m := &Material{
		dev:       dev,
		prog:      prog,
		colorTex:  cfg.colorTex,
		normalTex: cfg.normalTex,
		flatColor: cfg.flatColor,
		lit:       cfg.lit,
	}

	pb, err := prog.Bind()
	if err != nil {
		prog.Release()
		return nil, err
	}
	if m.colorTex != nil {
		m.colorTex.AssignUnit(colorUnit)
		pb.SetInt("color", colorUnit)
	} else {
		pb.SetVec3("color", m.flatColor)
	}
	if m.normalTex != nil {
		m.normalTex.AssignUnit(normalUnit)
		pb.SetInt("normal_map", normalUnit)
	}
	if m.lit {
		if err := pb.BindUniformBlock("Light", lightSlot); err != nil {
			prog.Release()
			return nil, err
		}
	}
	return m, nil
}

// Lit reports whether this material reads the Light uniform block.
func (m *Material) Lit() bool { return m.lit }

// Program returns the compiled variant program.
func (m *Material) Program() *ShaderProgram { return m.prog }

// Draw renders the meshes with this material into the bound framebuffer.
//
// The framebuffer guard is mandatory and must be complete. The light
// guard is mandatory for lit materials and ignored by unlit ones. Lit
// draws issue one pass per light, compositing additively into the same
// target: ambient lights first with blending disabled so they establish
// the base color, then point/directional lights with additive blending.
// The depth buffer is cleared between passes so later lights are not
// rejected by their own geometry from an earlier pass.
func (m *Material) Draw(fb *FramebufferBinding, lights *LightBinding, model, viewProj mgl32.Mat4, meshes ...*Mesh) error {
	if m.released {
		return errReleased("Material.Draw", KindProgram)
	}
	if err := fb.CheckComplete(); err != nil {
		return err
	}
	if m.lit && lights == nil {
		return &ConfigurationError{Reason: "lit material drawn without a light binding"}
	}

	pb, err := m.prog.Bind()
	if err != nil {
		return err
	}
	pb.SetMat4("model", model)
	pb.SetMat4("view_proj", viewProj)
	pb.SetMat4("inv_view_proj", viewProj.Inv())

	if m.colorTex != nil {
		if _, err := m.colorTex.Bind(); err != nil {
			return err
		}
	}
	if m.normalTex != nil {
		if _, err := m.normalTex.Bind(); err != nil {
			return err
		}
	}

	if !m.lit {
		fb.SetBlend(BlendReplace)
		return drawAll(fb, meshes)
	}

	// Ambient passes first: they replace, everything after accumulates.
	order := make([]int, 0, lights.Len())
	for i := 0; i < lights.Len(); i++ {
		if lights.Light(i).Kind == LightAmbient {
			order = append(order, i)
		}
	}
	for i := 0; i < lights.Len(); i++ {
		if lights.Light(i).Kind != LightAmbient {
			order = append(order, i)
		}
	}

	for pass, i := range order {
		if pass == 0 {
			fb.SetBlend(BlendReplace)
		} else {
			fb.SetBlend(BlendAdditive)
			fb.SetClearDepth(1)
			fb.Clear(ClearDepthBuffer)
		}
		if err := lights.BindLight(i, lightSlot); err != nil {
			return err
		}
		Logger().Debug("violet: light pass",
			"index", i, "kind", lights.Light(i).Kind.String(), "additive", pass != 0)
		if err := drawAll(fb, meshes); err != nil {
			return err
		}
	}
	return nil
}

func drawAll(fb *FramebufferBinding, meshes []*Mesh) error {
	for _, mesh := range meshes {
		if err := mesh.Draw(fb); err != nil {
			return err
		}
	}
	return nil
}

// Release frees the variant program. Textures belong to the caller and
// are not released. Safe to call more than once.
func (m *Material) Release() {
	if m.released {
		return
	}
	m.released = true
	m.prog.Release()
}
