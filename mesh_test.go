package violet

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPackVertices_Layout(t *testing.T) {
	verts := []Vertex{
		{
			Position: mgl32.Vec3{1, 2, 3},
			Normal:   mgl32.Vec3{0, 1, 0},
			UV:       mgl32.Vec2{0.25, 0.75},
		},
		{
			Position: mgl32.Vec3{-1, -2, -3},
			Normal:   mgl32.Vec3{0, 0, 1},
			UV:       mgl32.Vec2{1, 0},
		},
	}
	buf := packVertices(verts)
	if len(buf) != 2*vertexStride {
		t.Fatalf("packed size = %d, want %d", len(buf), 2*vertexStride)
	}

	// First vertex: position at 0, normal at 12, uv at 24.
	checks := []struct {
		offset int
		want   float32
	}{
		{0, 1}, {4, 2}, {8, 3},
		{12, 0}, {16, 1}, {20, 0},
		{24, 0.25}, {28, 0.75},
		// Second vertex starts one stride in.
		{vertexStride, -1},
		{vertexStride + 24, 1},
	}
	for _, c := range checks {
		if got := f32At(t, buf, c.offset); got != c.want {
			t.Errorf("float at %d = %v, want %v", c.offset, got, c.want)
		}
	}
}

func TestPackIndices(t *testing.T) {
	buf := packIndices([]uint32{0, 1, 2})
	if len(buf) != 12 {
		t.Fatalf("packed size = %d, want 12", len(buf))
	}
	if buf[4] != 1 || buf[8] != 2 {
		t.Errorf("little-endian index layout broken: % x", buf)
	}
}

func TestUVSphere_Counts(t *testing.T) {
	tests := []struct {
		name       string
		nlon, nlat int
	}{
		{"minimal", 3, 2},
		{"small", 8, 4},
		{"typical", 32, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := UVSphere(1, tt.nlon, tt.nlat)
			wantVerts := tt.nlon*(tt.nlat-1) + 2
			if got := len(data.Vertices); got != wantVerts {
				t.Errorf("vertex count = %d, want %d", got, wantVerts)
			}
			// Two pole caps plus quad strips between interior rings.
			wantTris := 2*tt.nlon + 2*tt.nlon*(tt.nlat-2)
			if got := len(data.Indices) / 3; got != wantTris {
				t.Errorf("triangle count = %d, want %d", got, wantTris)
			}
			for _, idx := range data.Indices {
				if int(idx) >= wantVerts {
					t.Fatalf("index %d out of range (%d vertices)", idx, wantVerts)
				}
			}
		})
	}
}

func TestUVSphere_NormalsUnitOutward(t *testing.T) {
	const radius = 2.5
	data := UVSphere(radius, 12, 6)
	for i, v := range data.Vertices {
		if n := v.Normal.Len(); n < 1-epsilon || n > 1+epsilon {
			t.Fatalf("vertex %d normal length = %v, want 1", i, n)
		}
		if !vec3Equal(v.Position, v.Normal.Mul(radius), 1e-4) {
			t.Fatalf("vertex %d position %v not radius times normal %v", i, v.Position, v.Normal)
		}
	}
}
