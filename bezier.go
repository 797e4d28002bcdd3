package violet

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// BezierCurve is an ordered sequence of 3D control points. A curve with n
// points has degree n-1; a single point is a valid degree-0 curve.
// Evaluation expects t in [0,1] but does not clamp: de Casteljau degrades
// gracefully outside that range, so callers may extrapolate.
type BezierCurve struct {
	points []mgl32.Vec3
}

// NewBezierCurve builds a curve from at least one control point.
func NewBezierCurve(points ...mgl32.Vec3) (*BezierCurve, error) {
	if len(points) == 0 {
		return nil, &ConfigurationError{Reason: "bezier curve needs at least one control point"}
	}
	return &BezierCurve{points: append([]mgl32.Vec3(nil), points...)}, nil
}

// Degree returns the polynomial degree (number of points minus one).
func (c *BezierCurve) Degree() int { return len(c.points) - 1 }

// Points returns the control points.
func (c *BezierCurve) Points() []mgl32.Vec3 { return c.points }

// Point evaluates the curve at t by de Casteljau's algorithm: blend each
// adjacent pair, shortening the sequence by one per pass until a single
// point remains. O(n²) per evaluation and numerically stable in [0,1].
func (c *BezierCurve) Point(t float32) mgl32.Vec3 {
	if len(c.points) == 1 {
		return c.points[0]
	}
	work := make([]mgl32.Vec3, len(c.points))
	copy(work, c.points)
	for n := len(work); n > 1; n-- {
		for i := 0; i < n-1; i++ {
			work[i] = lerp3(work[i], work[i+1], t)
		}
	}
	return work[0]
}

// Derivative returns the hodograph: the curve whose evaluation at t is
// the tangent vector dP/dt. A degree-0 curve has a zero derivative.
func (c *BezierCurve) Derivative() *BezierCurve {
	n := len(c.points) - 1
	if n == 0 {
		return &BezierCurve{points: []mgl32.Vec3{{}}}
	}
	d := make([]mgl32.Vec3, n)
	for i := 0; i < n; i++ {
		d[i] = c.points[i+1].Sub(c.points[i]).Mul(float32(n))
	}
	return &BezierCurve{points: d}
}

// Split subdivides the curve at parameter s into two curves that together
// trace the same path: the left covers the original [0,s], the right
// [s,1]. The split points fall out of the de Casteljau triangle: the
// left curve collects the first point of every reduction level, the right
// collects the last.
func (c *BezierCurve) Split(s float32) (left, right *BezierCurve) {
	n := len(c.points)
	work := make([]mgl32.Vec3, n)
	copy(work, c.points)
	l := make([]mgl32.Vec3, n)
	r := make([]mgl32.Vec3, n)
	l[0] = work[0]
	r[n-1] = work[n-1]
	for level := 1; level < n; level++ {
		for i := 0; i < n-level; i++ {
			work[i] = lerp3(work[i], work[i+1], s)
		}
		l[level] = work[0]
		r[n-1-level] = work[n-1-level]
	}
	return &BezierCurve{points: l}, &BezierCurve{points: r}
}

// BezierSurface is a rectangular grid of control points: rows curves of
// cols points each. The u parameter runs along each row, v across rows.
// Degree is cols-1 in u and rows-1 in v.
type BezierSurface struct {
	points [][]mgl32.Vec3
	rows   int
	cols   int
}

// NewBezierSurface builds a surface from a rectangular, non-empty grid.
func NewBezierSurface(grid [][]mgl32.Vec3) (*BezierSurface, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, &ConfigurationError{Reason: "bezier surface needs a non-empty control grid"}
	}
	cols := len(grid[0])
	points := make([][]mgl32.Vec3, len(grid))
	for r, row := range grid {
		if len(row) != cols {
			return nil, &ConfigurationError{Reason: "bezier surface control grid is not rectangular"}
		}
		points[r] = append([]mgl32.Vec3(nil), row...)
	}
	return &BezierSurface{points: points, rows: len(grid), cols: cols}, nil
}

// Rows returns the number of control rows (v direction).
func (s *BezierSurface) Rows() int { return s.rows }

// Cols returns the number of control columns (u direction).
func (s *BezierSurface) Cols() int { return s.cols }

// column reduces every row curve at u, producing the intermediate control
// column that a final reduction at v collapses to the surface point.
func (s *BezierSurface) column(u float32) []mgl32.Vec3 {
	col := make([]mgl32.Vec3, s.rows)
	for r, row := range s.points {
		col[r] = (&BezierCurve{points: row}).Point(u)
	}
	return col
}

// Point evaluates the surface at (u, v): two nested de Casteljau passes,
// O(rows·cols²) for the rows and O(rows²) for the final column.
func (s *BezierSurface) Point(u, v float32) mgl32.Vec3 {
	return (&BezierCurve{points: s.column(u)}).Point(v)
}

// PartialU returns the tangent ∂P/∂u at (u, v), evaluated analytically
// through the row hodographs.
func (s *BezierSurface) PartialU(u, v float32) mgl32.Vec3 {
	col := make([]mgl32.Vec3, s.rows)
	for r, row := range s.points {
		col[r] = (&BezierCurve{points: row}).Derivative().Point(u)
	}
	return (&BezierCurve{points: col}).Point(v)
}

// PartialV returns the tangent ∂P/∂v at (u, v): the intermediate column
// curve's own derivative.
func (s *BezierSurface) PartialV(u, v float32) mgl32.Vec3 {
	return (&BezierCurve{points: s.column(u)}).Derivative().Point(v)
}

// defaultNormal stands in where the partial derivatives are collinear or
// vanish (poles, seams, degenerate patches).
var defaultNormal = mgl32.Vec3{0, 1, 0}

// Normal returns the outward unit normal cross(∂u, ∂v) at (u, v), falling
// back to the default up vector at degenerate points.
func (s *BezierSurface) Normal(u, v float32) mgl32.Vec3 {
	n := s.PartialU(u, v).Cross(s.PartialV(u, v))
	if length := n.Len(); length > 1e-8 && !math32.IsNaN(length) {
		return n.Mul(1 / length)
	}
	return defaultNormal
}
