package violet

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Texture owns one device-side texture object. Pixel uploads, storage
// reservation and filtering all require the TextureBinding guard.
type Texture struct {
	handle
	width  int
	height int
	format PixelFormat
	unit   int
}

// NewTexture creates a texture with no storage. Reserve or upload through
// the binding before attaching or sampling it.
func NewTexture(dev Device) (*Texture, error) {
	name, err := dev.CreateTexture()
	if err != nil {
		return nil, err
	}
	return &Texture{
		handle: handle{dev: dev, name: name, kind: KindTexture},
	}, nil
}

// Width returns the storage width in pixels, 0 before any allocation.
func (t *Texture) Width() int { return t.width }

// Height returns the storage height in pixels, 0 before any allocation.
func (t *Texture) Height() int { return t.height }

// Format returns the storage format of the last allocation.
func (t *Texture) Format() PixelFormat { return t.format }

// AssignUnit selects the texture unit this texture binds through. Units
// are how a program samples several textures at once; the matching
// sampler uniform must be set to the same unit.
func (t *Texture) AssignUnit(unit int) { t.unit = unit }

// Unit returns the assigned texture unit.
func (t *Texture) Unit() int { return t.unit }

// Bind activates the assigned unit, makes this texture current on it, and
// returns the guard required by texture operations.
func (t *Texture) Bind() (*TextureBinding, error) {
	if !t.valid() {
		return nil, errReleased("Texture.Bind", KindTexture)
	}
	t.dev.ActiveTexture(t.unit)
	t.dev.BindTexture(t.name)
	return &TextureBinding{tex: t}, nil
}

// Release frees the device texture. Safe to call more than once.
func (t *Texture) Release() {
	t.release(t.dev.DeleteTexture)
}

// TextureBinding proves a Texture is current on its assigned unit.
type TextureBinding struct {
	tex *Texture
}

// Texture returns the bound texture.
func (tb *TextureBinding) Texture() *Texture { return tb.tex }

// UploadImage allocates width×height storage and uploads pix. The byte
// length must match the declared dimensions for the format; storage-only
// formats are rejected.
func (tb *TextureBinding) UploadImage(width, height int, format PixelFormat, pix []byte) error {
	if !tb.tex.valid() {
		return errReleased("TextureBinding.UploadImage", KindTexture)
	}
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return &DeviceError{
			Op:     "TextureBinding.UploadImage",
			Reason: fmt.Sprintf("format %s does not support image uploads", format),
		}
	}
	if want := width * height * bpp; len(pix) != want {
		return &DeviceError{
			Op: "TextureBinding.UploadImage",
			Reason: fmt.Sprintf("%dx%d %s needs %d bytes, got %d",
				width, height, format, want, len(pix)),
		}
	}
	if err := tb.tex.dev.TexImage2D(width, height, format, pix); err != nil {
		return err
	}
	tb.tex.width, tb.tex.height, tb.tex.format = width, height, format
	return nil
}

// ReserveStorage allocates width×height storage without uploading pixels.
// Used for render targets (HDR color, depth).
func (tb *TextureBinding) ReserveStorage(width, height int, format PixelFormat) error {
	if !tb.tex.valid() {
		return errReleased("TextureBinding.ReserveStorage", KindTexture)
	}
	if err := tb.tex.dev.TexImage2D(width, height, format, nil); err != nil {
		return err
	}
	tb.tex.width, tb.tex.height, tb.tex.format = width, height, format
	return nil
}

// Resize reallocates storage at the new size, keeping the format. The
// previous contents are discarded.
func (tb *TextureBinding) Resize(width, height int) error {
	return tb.ReserveStorage(width, height, tb.tex.format)
}

// SetFiltering sets both minification and magnification filtering.
func (tb *TextureBinding) SetFiltering(mode FilterMode) error {
	if !tb.tex.valid() {
		return errReleased("TextureBinding.SetFiltering", KindTexture)
	}
	tb.tex.dev.TexFilter(mode, mode)
	return nil
}

// DecodeTexture converts a decoded image to RGBA8 and uploads it into a
// new texture with linear filtering. Image decoding itself stays with the
// caller; this helper only does the format conversion every front-end
// would otherwise repeat.
func DecodeTexture(dev Device, img image.Image) (*Texture, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	tex, err := NewTexture(dev)
	if err != nil {
		return nil, err
	}
	tb, err := tex.Bind()
	if err != nil {
		tex.Release()
		return nil, err
	}
	if err := tb.UploadImage(b.Dx(), b.Dy(), FormatRGBA8, rgba.Pix); err != nil {
		tex.Release()
		return nil, err
	}
	if err := tb.SetFiltering(FilterLinear); err != nil {
		tex.Release()
		return nil, err
	}
	return tex, nil
}
