package violet

import "github.com/go-gl/mathgl/mgl32"

// MaterialOption configures a Material during creation.
//
// Example:
//
//	// Flat-colored, lit by a LightBuffer at draw time:
//	mat, err := violet.NewMaterial(dev, violet.WithColor(mgl32.Vec3{0.8, 0.2, 0.2}))
//
//	// Textured with a normal map:
//	mat, err := violet.NewMaterial(dev,
//	    violet.WithColorTexture(albedo),
//	    violet.WithNormalMap(normals))
type MaterialOption func(*materialOptions)

type materialOptions struct {
	colorTex  *Texture
	normalTex *Texture
	flatColor mgl32.Vec3
	lit       bool
	variants  VariantTable
}

// WithColorTexture samples albedo from a texture instead of a flat color.
// Selects a HAS_COLOR_TEXTURE program variant.
func WithColorTexture(t *Texture) MaterialOption {
	return func(o *materialOptions) { o.colorTex = t }
}

// WithColor sets the flat albedo used when no color texture is present.
func WithColor(c mgl32.Vec3) MaterialOption {
	return func(o *materialOptions) { o.flatColor = c }
}

// WithNormalMap perturbs shading normals with a tangent-space normal map.
// Selects a HAS_NORMAL_TEXTURE program variant.
func WithNormalMap(t *Texture) MaterialOption {
	return func(o *materialOptions) { o.normalTex = t }
}

// Unlit makes the material ignore lights entirely: output is the albedo.
// Unlit materials may be drawn without a light binding.
func Unlit() MaterialOption {
	return func(o *materialOptions) { o.lit = false }
}

// WithVariants substitutes a custom shader variant table. Entries missing
// for the selected texture permutation fail construction with a
// *ConfigurationError.
func WithVariants(t VariantTable) MaterialOption {
	return func(o *materialOptions) { o.variants = t }
}

// RenderBufferOption configures RenderBuffers during creation.
type RenderBufferOption func(*renderBufferOptions)

type renderBufferOptions struct {
	exposure   float32
	tonemapSrc string
}

// WithExposure sets the initial exposure applied before tone mapping.
func WithExposure(v float32) RenderBufferOption {
	return func(o *renderBufferOptions) { o.exposure = v }
}

// WithTonemapShader substitutes the fragment source of the tone-mapping
// pass. The source receives the HDR color as sampler "in_color" and the
// scalar "exposure".
func WithTonemapShader(src string) RenderBufferOption {
	return func(o *renderBufferOptions) { o.tonemapSrc = src }
}
