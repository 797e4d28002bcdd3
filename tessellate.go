package violet

import "github.com/go-gl/mathgl/mgl32"

// Tessellate samples the surface on a regular (divU+1)×(divV+1) grid over
// [0,1]² and triangulates it: two triangles per grid cell, counter-
// clockwise when viewed from the outward-normal side, indices row-major.
// Normals come from the partial-derivative cross product with the default
// up-vector fallback at degenerate samples; UVs are the sample parameters.
func (s *BezierSurface) Tessellate(divU, divV int) (MeshData, error) {
	if divU < 1 || divV < 1 {
		return MeshData{}, &ConfigurationError{Reason: "tessellation needs at least one division per axis"}
	}

	nu, nv := divU+1, divV+1
	vertices := make([]Vertex, 0, nu*nv)
	for j := 0; j < nv; j++ {
		v := float32(j) / float32(divV)
		for i := 0; i < nu; i++ {
			u := float32(i) / float32(divU)
			vertices = append(vertices, Vertex{
				Position: s.Point(u, v),
				Normal:   s.Normal(u, v),
				UV:       mgl32.Vec2{u, v},
			})
		}
	}

	indices := make([]uint32, 0, divU*divV*6)
	for j := 0; j < divV; j++ {
		for i := 0; i < divU; i++ {
			idx := uint32(j*nu + i)
			next := idx + uint32(nu)
			indices = append(indices,
				idx, idx+1, next,
				idx+1, next+1, next,
			)
		}
	}

	return MeshData{Vertices: vertices, Indices: indices}, nil
}
