package violet_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/violet"
	"github.com/gogpu/violet/backend/headless"
)

func TestRenderBuffers_TonemapRoundTrip(t *testing.T) {
	dev := headless.New(4, 4)
	mesh := flatPatchMesh(t, dev)

	rb, err := violet.NewRenderBuffers(dev, 4, 4, violet.WithExposure(2))
	if err != nil {
		t.Fatalf("NewRenderBuffers: %v", err)
	}
	defer rb.Release()
	if rb.Exposure() != 2 {
		t.Fatalf("Exposure() = %v, want 2", rb.Exposure())
	}

	mat, err := violet.NewMaterial(dev, violet.Unlit(), violet.WithColor(mgl32.Vec3{0.5, 0.5, 0.5}))
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	defer mat.Release()

	hdr, err := rb.Bind()
	if err != nil {
		t.Fatalf("rb.Bind: %v", err)
	}
	if err := mat.Draw(hdr, nil, mgl32.Ident4(), mgl32.Ident4(), mesh); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// HDR target holds linear 0.5 before tone mapping.
	px := readPixel(t, hdr, 2, 2)
	if px[0] != 0.5 {
		t.Fatalf("hdr pixel = %v, want linear 0.5", px[0])
	}

	screen, err := violet.DefaultFramebuffer(dev).Bind()
	if err != nil {
		t.Fatalf("screen bind: %v", err)
	}
	screen.Viewport(0, 0, 4, 4)
	if err := rb.BlitTonemap(screen); err != nil {
		t.Fatalf("BlitTonemap: %v", err)
	}

	// Reinhard with exposure 2: c = 0.5*2 = 1, luma(1,1,1) = 1, out = 0.5.
	px = readPixel(t, screen, 2, 2)
	for c := 0; c < 3; c++ {
		if diff := px[c] - 0.5; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("channel %d = %v, want 0.5", c, px[c])
		}
	}
}

func TestRenderBuffers_ExposureScaling(t *testing.T) {
	dev := headless.New(2, 2)
	mesh := flatPatchMesh(t, dev)

	rb, err := violet.NewRenderBuffers(dev, 2, 2)
	if err != nil {
		t.Fatalf("NewRenderBuffers: %v", err)
	}
	defer rb.Release()

	mat, err := violet.NewMaterial(dev, violet.Unlit(), violet.WithColor(mgl32.Vec3{1, 1, 1}))
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	defer mat.Release()

	hdr, err := rb.Bind()
	if err != nil {
		t.Fatalf("rb.Bind: %v", err)
	}
	if err := mat.Draw(hdr, nil, mgl32.Ident4(), mgl32.Ident4(), mesh); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	screen, err := violet.DefaultFramebuffer(dev).Bind()
	if err != nil {
		t.Fatalf("screen bind: %v", err)
	}
	screen.Viewport(0, 0, 2, 2)

	// Tone-mapped output is monotonic in exposure and stays below 1.
	var prev float32 = -1
	for _, exposure := range []float32{0.5, 1, 2, 8} {
		rb.SetExposure(exposure)
		if err := rb.BlitTonemap(screen); err != nil {
			t.Fatalf("BlitTonemap(exposure=%v): %v", exposure, err)
		}
		px := readPixel(t, screen, 0, 0)
		if px[0] <= prev {
			t.Errorf("exposure %v: output %v not above previous %v", exposure, px[0], prev)
		}
		if px[0] >= 1 {
			t.Errorf("exposure %v: output %v not compressed below 1", exposure, px[0])
		}
		prev = px[0]
	}
}

func TestRenderBuffers_Resize(t *testing.T) {
	dev := headless.New(8, 8)
	rb, err := violet.NewRenderBuffers(dev, 8, 8)
	if err != nil {
		t.Fatalf("NewRenderBuffers: %v", err)
	}
	defer rb.Release()

	if err := rb.Resize(3, 5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := rb.ColorTexture().Width(), rb.ColorTexture().Height(); w != 3 || h != 5 {
		t.Errorf("color attachment = %dx%d, want 3x5", w, h)
	}
	if got := rb.ColorTexture().Format(); got != violet.FormatRGBA16F {
		t.Errorf("format after resize = %v, want RGBA16F", got)
	}

	var cfgErr *violet.ConfigurationError
	if err := rb.Resize(0, 5); !errors.As(err, &cfgErr) {
		t.Errorf("Resize(0,5) = %v, want *ConfigurationError", err)
	}
}

func TestRenderBuffers_InvalidSize(t *testing.T) {
	dev := headless.New(4, 4)
	var cfgErr *violet.ConfigurationError
	if _, err := violet.NewRenderBuffers(dev, 0, 4); !errors.As(err, &cfgErr) {
		t.Errorf("NewRenderBuffers(0,4) = %v, want *ConfigurationError", err)
	}
}

func TestRenderBuffers_UseAfterRelease(t *testing.T) {
	dev := headless.New(4, 4)
	rb, err := violet.NewRenderBuffers(dev, 4, 4)
	if err != nil {
		t.Fatalf("NewRenderBuffers: %v", err)
	}
	rb.Release()
	rb.Release()

	var derr *violet.DeviceError
	if _, err := rb.Bind(); !errors.As(err, &derr) {
		t.Errorf("Bind after release = %v, want *DeviceError", err)
	}
	if err := rb.Resize(2, 2); !errors.As(err, &derr) {
		t.Errorf("Resize after release = %v, want *DeviceError", err)
	}
}

func TestScreenPass_CustomShader(t *testing.T) {
	dev := headless.New(4, 4)

	// A fragment source the emulation cannot interpret still builds a
	// working pass; its draws are marked magenta.
	pass, err := violet.NewScreenPass(dev, "#version 410 core\nout vec4 frag;\nvoid main() { frag = vec4(1.0); }")
	if err != nil {
		t.Fatalf("NewScreenPass: %v", err)
	}
	defer pass.Release()

	fbb, err := violet.DefaultFramebuffer(dev).Bind()
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := pass.Draw(fbb); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	px := readPixel(t, fbb, 1, 1)
	if px[0] != 1 || px[1] != 0 || px[2] != 1 {
		t.Errorf("pixel = %v, want debug magenta", px)
	}

	if _, err := violet.NewScreenPass(dev, "no main here"); err == nil {
		t.Error("expected compile error for fragment source without main")
	}
}
