package engine

import "math"

// Matrix2D is a 2D affine transform stored as [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix2D [6]float64

func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// RotateDegrees returns a clockwise rotation in screen space (y down).
func RotateDegrees(degrees float64) Matrix2D {
	rad := degrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse, or Identity when m is singular.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}
	inv := 1.0 / det
	return Matrix2D{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}
}

// ElementTransform maps element-local coordinates to document space:
// Translate(x, y) * Rotate(r) * Scale(sx, sy).
func ElementTransform(x, y, sx, sy, rDegrees float64) Matrix2D {
	return Translate(x, y).Multiply(RotateDegrees(rDegrees)).Multiply(Scale(sx, sy))
}

// ToSlice returns the matrix as a slice for JSON payloads.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}
