package violet

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	if offset+4 > len(buf) {
		t.Fatalf("offset %d past end of %d-byte buffer", offset, len(buf))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestStd140Writer_Vec3Alignment(t *testing.T) {
	var w std140Writer
	w.PutUint32(7)
	w.PutVec3(mgl32.Vec3{1, 2, 3})
	w.AlignStruct()
	buf := w.Bytes()

	if len(buf) != 32 {
		t.Fatalf("size = %d, want 32", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[0:]); got != 7 {
		t.Errorf("scalar at 0 = %d, want 7", got)
	}
	// vec3 starts at the next 16-byte boundary, not at 4.
	for i, want := range []float32{1, 2, 3} {
		if got := f32At(t, buf, 16+i*4); got != want {
			t.Errorf("vec3[%d] at %d = %v, want %v", i, 16+i*4, got, want)
		}
	}
}

func TestStd140Writer_ConsecutiveVec3(t *testing.T) {
	var w std140Writer
	w.PutVec3(mgl32.Vec3{1, 0, 0})
	w.PutVec3(mgl32.Vec3{0, 1, 0})
	buf := w.Bytes()
	// Each vec3 consumes a full 16-byte slot.
	if len(buf) != 32 {
		t.Fatalf("size = %d, want 32", len(buf))
	}
	if got := f32At(t, buf, 16); got != 0 {
		t.Errorf("second vec3 x at 16 = %v, want 0", got)
	}
	if got := f32At(t, buf, 20); got != 1 {
		t.Errorf("second vec3 y at 20 = %v, want 1", got)
	}
}

func TestValidateStd140(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, true},
		{"unaligned", 20, true},
		{"one slot", 16, false},
		{"three slots", 48, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStd140(make([]byte, tt.size))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateStd140(%d bytes) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
			if err != nil {
				var layoutErr *LayoutError
				if !errors.As(err, &layoutErr) {
					t.Errorf("error type = %T, want *LayoutError", err)
				}
			}
		})
	}
}

func TestLightDescriptor_Pack(t *testing.T) {
	l := LightDescriptor{
		Kind:   LightDirectional,
		PosDir: mgl32.Vec3{0, -1, 0},
		Color:  mgl32.Vec3{0.5, 0.25, 1},
	}
	buf := l.Pack()

	if len(buf) != lightStride {
		t.Fatalf("packed size = %d, want %d", len(buf), lightStride)
	}
	if got := binary.LittleEndian.Uint32(buf[0:]); got != uint32(LightDirectional) {
		t.Errorf("kind at 0 = %d, want %d", got, LightDirectional)
	}
	if got := f32At(t, buf, 16+4); got != -1 {
		t.Errorf("pos_dir.y at 20 = %v, want -1", got)
	}
	for i, want := range []float32{0.5, 0.25, 1} {
		if got := f32At(t, buf, 32+i*4); got != want {
			t.Errorf("color[%d] at %d = %v, want %v", i, 32+i*4, got, want)
		}
	}
	if err := validateStd140(buf); err != nil {
		t.Errorf("packed light fails validation: %v", err)
	}
}

func TestPackLights_Stride(t *testing.T) {
	lights := []LightDescriptor{
		{Kind: LightAmbient, Color: mgl32.Vec3{0.1, 0.1, 0.1}},
		{Kind: LightPoint, PosDir: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{1, 1, 1}},
	}
	buf := PackLights(lights)
	if len(buf) != 2*lightStride {
		t.Fatalf("packed size = %d, want %d", len(buf), 2*lightStride)
	}
	// Second element starts exactly one stride in.
	if got := binary.LittleEndian.Uint32(buf[lightStride:]); got != uint32(LightPoint) {
		t.Errorf("second kind = %d, want %d", got, LightPoint)
	}
	if got := f32At(t, buf, lightStride+16); got != 1 {
		t.Errorf("second pos_dir.x = %v, want 1", got)
	}
}

func TestLightKind_String(t *testing.T) {
	tests := []struct {
		kind LightKind
		want string
	}{
		{LightPoint, "point"},
		{LightDirectional, "directional"},
		{LightAmbient, "ambient"},
		{LightKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("LightKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
