package lin

import (
	"errors"
	"math"
)

// ErrSingularMatrix is returned when a matrix inverse does not exist.
var ErrSingularMatrix = errors.New("lin: matrix is singular")

// ErrDegenerateView is returned by LookAtRH when the eye coincides with
// the target or the up vector is parallel to the view direction.
var ErrDegenerateView = errors.New("lin: degenerate view parameters")

// Mat3 is a 3x3 column-major matrix.
type Mat3 struct {
	Cols [3]Vec3
}

// Mat3Identity returns the 3x3 identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{Cols: [3]Vec3{{X: 1}, {Y: 1}, {Z: 1}}}
}

// Mul returns the matrix product m * o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for j := 0; j < 3; j++ {
		r.Cols[j] = m.MulVec3(o.Cols[j])
	}
	return r
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return m.Cols[0].Mul(v.X).Add(m.Cols[1].Mul(v.Y)).Add(m.Cols[2].Mul(v.Z))
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{Cols: [3]Vec3{
		{m.Cols[0].X, m.Cols[1].X, m.Cols[2].X},
		{m.Cols[0].Y, m.Cols[1].Y, m.Cols[2].Y},
		{m.Cols[0].Z, m.Cols[1].Z, m.Cols[2].Z},
	}}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float32 {
	return m.Cols[0].Dot(m.Cols[1].Cross(m.Cols[2]))
}

// Inverse returns the inverse of the matrix, or an error when the
// determinant is below Epsilon.
func (m Mat3) Inverse() (Mat3, error) {
	det := m.Determinant()
	if abs32(det) < Epsilon {
		return Mat3{}, ErrSingularMatrix
	}
	invDet := 1 / det
	c0 := m.Cols[1].Cross(m.Cols[2]).Mul(invDet)
	c1 := m.Cols[2].Cross(m.Cols[0]).Mul(invDet)
	c2 := m.Cols[0].Cross(m.Cols[1]).Mul(invDet)
	// Rows of the inverse are the scaled cross products; transpose back
	// into column-major storage.
	return Mat3{Cols: [3]Vec3{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}}, nil
}

// Mat4 is a 4x4 column-major matrix. Translation lives in column 3.
type Mat4 struct {
	Cols [4]Vec4
}

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{Cols: [4]Vec4{{X: 1}, {Y: 1}, {Z: 1}, {W: 1}}}
}

// Mat4FromCols builds a matrix from its four columns.
func Mat4FromCols(c0, c1, c2, c3 Vec4) Mat4 {
	return Mat4{Cols: [4]Vec4{c0, c1, c2, c3}}
}

// Mat4Translation returns a translation matrix.
func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m.Cols[3] = Vec4{t.X, t.Y, t.Z, 1}
	return m
}

// Mat4Scale returns a nonuniform scale matrix.
func Mat4Scale(s Vec3) Mat4 {
	return Mat4{Cols: [4]Vec4{{X: s.X}, {Y: s.Y}, {Z: s.Z}, {W: 1}}}
}

// Mat4RotationX returns a rotation about the X axis by angle radians.
func Mat4RotationX(angle float32) Mat4 {
	s, c := sincos32(angle)
	m := Mat4Identity()
	m.Cols[1] = Vec4{0, c, s, 0}
	m.Cols[2] = Vec4{0, -s, c, 0}
	return m
}

// Mat4RotationY returns a rotation about the Y axis by angle radians.
func Mat4RotationY(angle float32) Mat4 {
	s, c := sincos32(angle)
	m := Mat4Identity()
	m.Cols[0] = Vec4{c, 0, -s, 0}
	m.Cols[2] = Vec4{s, 0, c, 0}
	return m
}

// Mat4RotationZ returns a rotation about the Z axis by angle radians.
func Mat4RotationZ(angle float32) Mat4 {
	s, c := sincos32(angle)
	m := Mat4Identity()
	m.Cols[0] = Vec4{c, s, 0, 0}
	m.Cols[1] = Vec4{-s, c, 0, 0}
	return m
}

// Mat4FromAxisAngle returns a rotation about an arbitrary axis. The axis
// is normalized defensively.
func Mat4FromAxisAngle(axis Vec3, angle float32) Mat4 {
	return QuatFromAxisAngle(axis, angle).Mat4()
}

func sincos32(angle float32) (s, c float32) {
	sd, cd := math.Sincos(float64(angle))
	return float32(sd), float32(cd)
}

// Mul returns the matrix product m * o, column-major:
// (m * o).Cols[j] = m * o.Cols[j].
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for j := 0; j < 4; j++ {
		r.Cols[j] = m.MulVec4(o.Cols[j])
	}
	return r
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return m.Cols[0].Mul(v.X).
		Add(m.Cols[1].Mul(v.Y)).
		Add(m.Cols[2].Mul(v.Z)).
		Add(m.Cols[3].Mul(v.W))
}

// TransformPoint applies the matrix to a position (w = 1) and performs
// the homogeneous divide when the resulting w is not 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	r := m.MulVec4(FromVec3(p, 1))
	if r.W != 1 && abs32(r.W) > Epsilon {
		return r.Truncate().Div(r.W)
	}
	return r.Truncate()
}

// TransformDirection applies the matrix to a direction (w = 0).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return m.MulVec4(FromVec3(d, 0)).Truncate()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{Cols: [4]Vec4{
		{m.Cols[0].X, m.Cols[1].X, m.Cols[2].X, m.Cols[3].X},
		{m.Cols[0].Y, m.Cols[1].Y, m.Cols[2].Y, m.Cols[3].Y},
		{m.Cols[0].Z, m.Cols[1].Z, m.Cols[2].Z, m.Cols[3].Z},
		{m.Cols[0].W, m.Cols[1].W, m.Cols[2].W, m.Cols[3].W},
	}}
}

// at returns the element at row r, column c.
func (m Mat4) at(r, c int) float32 {
	col := m.Cols[c]
	switch r {
	case 0:
		return col.X
	case 1:
		return col.Y
	case 2:
		return col.Z
	default:
		return col.W
	}
}

// Determinant returns the determinant via cofactor expansion along the
// first column.
func (m Mat4) Determinant() float32 {
	var det float32
	sign := float32(1)
	for r := 0; r < 4; r++ {
		det += sign * m.at(r, 0) * m.minor(r, 0)
		sign = -sign
	}
	return det
}

// minor returns the determinant of the 3x3 submatrix that omits row r
// and column c.
func (m Mat4) minor(r, c int) float32 {
	var sub [3][3]float32
	si := 0
	for i := 0; i < 4; i++ {
		if i == r {
			continue
		}
		sj := 0
		for j := 0; j < 4; j++ {
			if j == c {
				continue
			}
			sub[si][sj] = m.at(i, j)
			sj++
		}
		si++
	}
	return sub[0][0]*(sub[1][1]*sub[2][2]-sub[1][2]*sub[2][1]) -
		sub[0][1]*(sub[1][0]*sub[2][2]-sub[1][2]*sub[2][0]) +
		sub[0][2]*(sub[1][0]*sub[2][1]-sub[1][1]*sub[2][0])
}

// Inverse returns the inverse via the adjugate, or an error when the
// determinant is below Epsilon.
func (m Mat4) Inverse() (Mat4, error) {
	det := m.Determinant()
	if abs32(det) < Epsilon {
		return Mat4{}, ErrSingularMatrix
	}
	invDet := 1 / det
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sign := float32(1)
			if (i+j)%2 == 1 {
				sign = -1
			}
			// Cofactor transpose: element (j, i) of the inverse comes
			// from the (i, j) minor.
			v := sign * m.minor(i, j) * invDet
			switch j {
			case 0:
				r.Cols[i].X = v
			case 1:
				r.Cols[i].Y = v
			case 2:
				r.Cols[i].Z = v
			default:
				r.Cols[i].W = v
			}
		}
	}
	return r, nil
}

// UpperLeft returns the upper-left 3x3 block.
func (m Mat4) UpperLeft() Mat3 {
	return Mat3{Cols: [3]Vec3{
		m.Cols[0].Truncate(),
		m.Cols[1].Truncate(),
		m.Cols[2].Truncate(),
	}}
}

// LookAtRH builds a right-handed view matrix with the camera at eye
// looking toward target, mapping world space to a camera space that
// looks down -Z. It fails when eye and target coincide or when up is
// parallel to the view direction.
func LookAtRH(eye, target, up Vec3) (Mat4, error) {
	forward := target.Sub(eye)
	if forward.LengthSquared() < Epsilon*Epsilon {
		return Mat4{}, ErrDegenerateView
	}
	f := forward.Normalize()
	side := f.Cross(up)
	if side.LengthSquared() < Epsilon*Epsilon {
		return Mat4{}, ErrDegenerateView
	}
	s := side.Normalize()
	u := s.Cross(f)
	return Mat4{Cols: [4]Vec4{
		{s.X, u.X, -f.X, 0},
		{s.Y, u.Y, -f.Y, 0},
		{s.Z, u.Z, -f.Z, 0},
		{-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1},
	}}, nil
}

// PerspectiveRH builds a right-handed perspective projection with a
// [0, 1] depth range. fovY is the vertical field of view in radians.
func PerspectiveRH(fovY, aspect, near, far float32) Mat4 {
	f := 1 / float32(math.Tan(float64(fovY)*0.5))
	var m Mat4
	m.Cols[0].X = f / aspect
	m.Cols[1].Y = f
	m.Cols[2].Z = far / (near - far)
	m.Cols[2].W = -1
	m.Cols[3].Z = near * far / (near - far)
	return m
}

// OrthographicRH builds a right-handed orthographic projection with a
// [0, 1] depth range.
func OrthographicRH(left, right, bottom, top, near, far float32) Mat4 {
	var m Mat4
	m.Cols[0].X = 2 / (right - left)
	m.Cols[1].Y = 2 / (top - bottom)
	m.Cols[2].Z = 1 / (near - far)
	m.Cols[3] = Vec4{
		(left + right) / (left - right),
		(bottom + top) / (bottom - top),
		near / (near - far),
		1,
	}
	return m
}
