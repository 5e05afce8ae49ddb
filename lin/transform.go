package lin

import "errors"

// ErrNotAffine is returned when constructing an AffineTransform from a
// matrix whose last row is not (0, 0, 0, 1).
var ErrNotAffine = errors.New("lin: matrix last row is not (0,0,0,1)")

// AffineTransform is a Mat4 whose last row is (0, 0, 0, 1): a 3x3
// linear part plus a translation.
type AffineTransform struct {
	Mat Mat4
}

// AffineIdentity returns the identity transform.
func AffineIdentity() AffineTransform {
	return AffineTransform{Mat: Mat4Identity()}
}

// AffineFromMat4 validates the affine invariant and wraps the matrix.
func AffineFromMat4(m Mat4) (AffineTransform, error) {
	if abs32(m.Cols[0].W) > Epsilon ||
		abs32(m.Cols[1].W) > Epsilon ||
		abs32(m.Cols[2].W) > Epsilon ||
		abs32(m.Cols[3].W-1) > Epsilon {
		return AffineTransform{}, ErrNotAffine
	}
	return AffineTransform{Mat: m}, nil
}

// AffineFromTranslation returns a pure translation transform.
func AffineFromTranslation(t Vec3) AffineTransform {
	return AffineTransform{Mat: Mat4Translation(t)}
}

// AffineTRS composes translation, rotation and scale in the usual
// T * R * S order.
func AffineTRS(t Vec3, r Quat, s Vec3) AffineTransform {
	m := r.Mat4()
	m.Cols[0] = m.Cols[0].Mul(s.X)
	m.Cols[1] = m.Cols[1].Mul(s.Y)
	m.Cols[2] = m.Cols[2].Mul(s.Z)
	m.Cols[3] = Vec4{t.X, t.Y, t.Z, 1}
	return AffineTransform{Mat: m}
}

// Translation returns column 3 as a point.
func (a AffineTransform) Translation() Vec3 { return a.Mat.Cols[3].Truncate() }

// Right returns the transformed X basis vector (column 0).
func (a AffineTransform) Right() Vec3 { return a.Mat.Cols[0].Truncate() }

// Up returns the transformed Y basis vector (column 1).
func (a AffineTransform) Up() Vec3 { return a.Mat.Cols[1].Truncate() }

// Forward returns the transformed Z basis vector (column 2).
func (a AffineTransform) Forward() Vec3 { return a.Mat.Cols[2].Truncate() }

// Rotation extracts the rotation from the upper-left 3x3. Valid only
// for pure rotation or uniform scale; basis vectors are normalized
// before extraction.
func (a AffineTransform) Rotation() Quat {
	m := Mat3{Cols: [3]Vec3{
		a.Right().Normalize(),
		a.Up().Normalize(),
		a.Forward().Normalize(),
	}}
	return QuatFromRotationMatrix(m).Normalize()
}

// Mul composes two transforms.
func (a AffineTransform) Mul(b AffineTransform) AffineTransform {
	return AffineTransform{Mat: a.Mat.Mul(b.Mat)}
}

// TransformPoint applies the transform to a position.
func (a AffineTransform) TransformPoint(p Vec3) Vec3 {
	return a.Mat.TransformPoint(p)
}

// TransformDirection applies the linear part to a direction.
func (a AffineTransform) TransformDirection(d Vec3) Vec3 {
	return a.Mat.TransformDirection(d)
}

// Inverse exploits the affine structure: the inverse is inv(R) for the
// linear part and -inv(R)*t for the translation. It returns an error
// when the 3x3 block is singular.
func (a AffineTransform) Inverse() (AffineTransform, error) {
	r := a.Mat.UpperLeft()
	invR, err := r.Inverse()
	if err != nil {
		return AffineTransform{}, err
	}
	t := invR.MulVec3(a.Translation()).Neg()
	return AffineTransform{Mat: Mat4{Cols: [4]Vec4{
		FromVec3(invR.Cols[0], 0),
		FromVec3(invR.Cols[1], 0),
		FromVec3(invR.Cols[2], 0),
		{t.X, t.Y, t.Z, 1},
	}}}, nil
}
