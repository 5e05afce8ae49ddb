package lin

import "math"

// Quat is a rotation quaternion stored as (x, y, z, w). Rotation
// operations expect a unit quaternion; constructors normalize their
// inputs defensively.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromAxisAngle builds a rotation of angle radians about axis. The
// axis is normalized; a near-zero axis yields the identity.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return QuatIdentity()
	}
	s, c := sincos32(angle * 0.5)
	return Quat{n.X * s, n.Y * s, n.Z * s, c}
}

// QuatFromRotationMatrix extracts a rotation from the upper-left 3x3 of
// a pure-rotation matrix. The branch is selected on the trace sign and
// the dominant diagonal element for numerical stability.
func QuatFromRotationMatrix(m Mat3) Quat {
	m00, m11, m22 := m.Cols[0].X, m.Cols[1].Y, m.Cols[2].Z
	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := sqrt32(trace+1) * 2
		q.W = 0.25 * s
		q.X = (m.Cols[1].Z - m.Cols[2].Y) / s
		q.Y = (m.Cols[2].X - m.Cols[0].Z) / s
		q.Z = (m.Cols[0].Y - m.Cols[1].X) / s
	case m00 > m11 && m00 > m22:
		s := sqrt32(1+m00-m11-m22) * 2
		q.W = (m.Cols[1].Z - m.Cols[2].Y) / s
		q.X = 0.25 * s
		q.Y = (m.Cols[1].X + m.Cols[0].Y) / s
		q.Z = (m.Cols[2].X + m.Cols[0].Z) / s
	case m11 > m22:
		s := sqrt32(1+m11-m00-m22) * 2
		q.W = (m.Cols[2].X - m.Cols[0].Z) / s
		q.X = (m.Cols[1].X + m.Cols[0].Y) / s
		q.Y = 0.25 * s
		q.Z = (m.Cols[2].Y + m.Cols[1].Z) / s
	default:
		s := sqrt32(1+m22-m00-m11) * 2
		q.W = (m.Cols[0].Y - m.Cols[1].X) / s
		q.X = (m.Cols[2].X + m.Cols[0].Z) / s
		q.Y = (m.Cols[2].Y + m.Cols[1].Z) / s
		q.Z = 0.25 * s
	}
	return q
}

// Mul returns the Hamilton product q * o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Dot returns the four-component dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// LengthSquared returns the squared norm.
func (q Quat) LengthSquared() float32 { return q.Dot(q) }

// Length returns the norm.
func (q Quat) Length() float32 { return sqrt32(q.LengthSquared()) }

// Normalize returns the unit quaternion, or the identity when the norm
// is below Epsilon.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l < Epsilon {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Conjugate returns the conjugate quaternion.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Inverse returns the inverse rotation. For unit quaternions this is
// the conjugate.
func (q Quat) Inverse() Quat {
	ls := q.LengthSquared()
	if ls < Epsilon {
		return QuatIdentity()
	}
	c := q.Conjugate()
	return Quat{c.X / ls, c.Y / ls, c.Z / ls, c.W / ls}
}

// RotateVec3 rotates v by the quaternion.
func (q Quat) RotateVec3(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	s := q.W
	return u.Mul(2 * u.Dot(v)).
		Add(v.Mul(s*s - u.Dot(u))).
		Add(u.Cross(v).Mul(2 * s))
}

// Mat3 returns the rotation as a 3x3 matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	return Mat3{Cols: [3]Vec3{
		{1 - (yy + zz), xy + wz, xz - wy},
		{xy - wz, 1 - (xx + zz), yz + wx},
		{xz + wy, yz - wx, 1 - (xx + yy)},
	}}
}

// Mat4 returns the rotation as a homogeneous 4x4 matrix.
func (q Quat) Mat4() Mat4 {
	r := q.Mat3()
	return Mat4{Cols: [4]Vec4{
		FromVec3(r.Cols[0], 0),
		FromVec3(r.Cols[1], 0),
		FromVec3(r.Cols[2], 0),
		{W: 1},
	}}
}

// Slerp spherically interpolates from q to o. t is clamped to [0, 1].
// The shorter arc is taken by negating one endpoint when the dot
// product is negative; near-parallel endpoints fall back to normalized
// linear interpolation.
func (q Quat) Slerp(o Quat, t float32) Quat {
	t = clamp32(t, 0, 1)
	d := q.Dot(o)
	if d < 0 {
		o = Quat{-o.X, -o.Y, -o.Z, -o.W}
		d = -d
	}
	if d > 1-Epsilon {
		// Endpoints nearly parallel: nlerp is accurate and avoids the
		// vanishing sin denominator.
		return Quat{
			q.X + (o.X-q.X)*t,
			q.Y + (o.Y-q.Y)*t,
			q.Z + (o.Z-q.Z)*t,
			q.W + (o.W-q.W)*t,
		}.Normalize()
	}
	theta := float32(math.Acos(float64(clamp32(d, -1, 1))))
	sinTheta := float32(math.Sin(float64(theta)))
	wa := float32(math.Sin(float64((1-t)*theta))) / sinTheta
	wb := float32(math.Sin(float64(t*theta))) / sinTheta
	return Quat{
		q.X*wa + o.X*wb,
		q.Y*wa + o.Y*wb,
		q.Z*wa + o.Z*wb,
		q.W*wa + o.W*wb,
	}
}
