package arena2d

import "math"

// Matrix is a 2D affine transform stored column-major as [a, b, c, d, tx, ty],
// encoding:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Multiply returns p ∘ c — applying c first, then p (p.Multiply(c) composes
// as "p after c", matching parent.Multiply(local) = world).
func (p Matrix) Multiply(c Matrix) Matrix {
	return Matrix{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// Invert returns the inverse of m, or (Identity, false) if |det m| < 1e-10.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-10 && det < 1e-10 {
		return Identity, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// TransformPoint applies the affine matrix to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Translate returns Translate(x,y).
func Translate(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// Scale returns Scale(sx,sy). A zero factor is coerced to the smallest
// positive representable float64 to keep the composed matrix non-singular.
func Scale(sx, sy float64) Matrix {
	if sx == 0 {
		sx = math.SmallestNonzeroFloat64
	}
	if sy == 0 {
		sy = math.SmallestNonzeroFloat64
	}
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate returns Rotate(radians), clockwise.
func Rotate(radians float64) Matrix {
	sin, cos := math.Sincos(radians)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Skew returns Skew(skewX, skewY) in radians.
func Skew(skewX, skewY float64) Matrix {
	var tanX, tanY float64
	if skewX != 0 {
		tanX = math.Tan(skewX)
	}
	if skewY != 0 {
		tanY = math.Tan(skewY)
	}
	return Matrix{1, tanY, tanX, 1, 0, 0}
}

// composeLocal builds a node's local matrix as:
//
//	T(x,y) · R(rotation) · Sk(skewX,skewY) · S(scaleX,scaleY) · T(−pivotX,−pivotY)
//
// Folded into a single closed form, fusing the five factors algebraically
// rather than chaining five Matrix.Multiply calls per node per frame.
func composeLocal(n *Node) Matrix {
	sx, sy := n.ScaleX, n.ScaleY
	if sx == 0 {
		sx = math.SmallestNonzeroFloat64
	}
	if sy == 0 {
		sy = math.SmallestNonzeroFloat64
	}

	sin, cos := math.Sincos(n.Rotation)

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(n.SkewY)
	}

	// After Scale * Translate(-pivot):
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px, py := n.PivotX, n.PivotY
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	return Matrix{ra, rb, rc, rd, rtx + n.X, rty + n.Y}
}

// transformAABB transforms the four corners of a local rect by m and returns
// the componentwise min/max axis-aligned box.
func transformAABB(m Matrix, r Rect) Rect {
	x0, y0 := m.TransformPoint(r.X, r.Y)
	x1, y1 := m.TransformPoint(r.X+r.Width, r.Y)
	x2, y2 := m.TransformPoint(r.X+r.Width, r.Y+r.Height)
	x3, y3 := m.TransformPoint(r.X, r.Y+r.Height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
