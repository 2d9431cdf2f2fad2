// Package geo provides the 2D affine geometry shared by the document
// model, the renderer, and the PDF surface backends.
package geo

import "math"

// Point is a position in a 2D coordinate system.
type Point struct{ X, Y float64 }

// Size is a width/height pair. Negative components are allowed; callers
// that need physical dimensions take Abs first.
type Size struct{ W, H float64 }

// Abs returns the size with both components made non-negative.
func (s Size) Abs() Size { return Size{math.Abs(s.W), math.Abs(s.H)} }

// IsZero reports whether both components are exactly zero.
func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// Rect is an axis-aligned rectangle given by two opposite corners.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// BoundingRect returns the smallest axis-aligned rectangle covering pts.
func BoundingRect(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}

// Matrix is a 2D affine transform in PDF order [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scale by (sx, sy).
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotate returns a rotation by angle radians.
func Rotate(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{c, s, -s, c, 0, 0}
}

// Mul composes two transforms: the receiver is applied first, then o.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// PreConcat composes t before the receiver: the result applies t first.
func (m Matrix) PreConcat(t Matrix) Matrix { return t.Mul(m) }

// Apply maps p through the transform.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// IsIdentity reports whether the transform is exactly the identity.
func (m Matrix) IsIdentity() bool { return m == Identity() }
