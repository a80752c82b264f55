package compositor

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/example/shotmark/internal/geom"
)

// Matrix is a 2x3 affine transform in row-major order:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Multiply returns m*o, the transform that applies o first and then m.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Translate appends a translation. The translation is applied to points
// before the existing transform.
func (m Matrix) Translate(x, y float64) Matrix {
	return m.Multiply(Matrix{A: 1, C: x, E: 1, F: y})
}

// Scale appends a scale, applied before the existing transform.
func (m Matrix) Scale(x, y float64) Matrix {
	return m.Multiply(Matrix{A: x, E: y})
}

// Rotate appends a rotation by angle radians, applied before the existing
// transform. Positive angles turn +x towards +y.
func (m Matrix) Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	// Exact values for quarter turns keep pixel mappings integral.
	sin, cos = math.Round(sin*1e12)/1e12, math.Round(cos*1e12)/1e12
	return m.Multiply(Matrix{A: cos, B: -sin, D: sin, E: cos})
}

// Apply transforms p.
func (m Matrix) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse transform. A singular matrix yields the
// identity and false.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.E*m.C) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.D*m.C - m.A*m.F) * inv,
	}, true
}

// Aff3 converts m for use with golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}
