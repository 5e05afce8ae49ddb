package lin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertQuatNear(t *testing.T, want, got Quat, tol float32) {
	t.Helper()
	// q and -q represent the same rotation.
	if want.Dot(got) < 0 {
		got = Quat{-got.X, -got.Y, -got.Z, -got.W}
	}
	assert.InDelta(t, want.X, got.X, float64(tol))
	assert.InDelta(t, want.Y, got.Y, float64(tol))
	assert.InDelta(t, want.Z, got.Z, float64(tol))
	assert.InDelta(t, want.W, got.W, float64(tol))
}

func TestQuatMulInverseIsIdentity(t *testing.T) {
	r := &lcg{state: 5}
	for i := 0; i < 100; i++ {
		q := QuatFromAxisAngle(r.vec3(), r.next())
		assertQuatNear(t, QuatIdentity(), q.Mul(q.Inverse()), 1e-4)
	}
}

func TestQuatRotatePreservesLength(t *testing.T) {
	r := &lcg{state: 13}
	for i := 0; i < 100; i++ {
		q := QuatFromAxisAngle(r.vec3(), r.next())
		v := r.vec3()
		assert.InDelta(t, float64(v.Length()), float64(q.RotateVec3(v).Length()), 1e-2)
	}
}

func TestQuatRotateQuarterTurn(t *testing.T) {
	q := QuatFromAxisAngle(Vec3UnitY, math.Pi/2)
	got := q.RotateVec3(Vec3UnitX)
	assertVec3Near(t, V3(0, 0, -1), got, 1e-6)
}

func TestQuatMatrixRoundTrip(t *testing.T) {
	r := &lcg{state: 21}
	for i := 0; i < 100; i++ {
		q := QuatFromAxisAngle(r.vec3(), r.next())
		back := QuatFromRotationMatrix(q.Mat3())
		assertQuatNear(t, q, back, 1e-3)
	}
}

func TestQuatMatrixRoundTripStressesAllBranches(t *testing.T) {
	// Near-pi rotations about each axis drive the trace negative and
	// exercise the dominant-diagonal branches.
	for _, axis := range []Vec3{Vec3UnitX, Vec3UnitY, Vec3UnitZ} {
		q := QuatFromAxisAngle(axis, math.Pi-0.01)
		assertQuatNear(t, q, QuatFromRotationMatrix(q.Mat3()), 1e-3)
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := QuatFromAxisAngle(Vec3UnitY, 0.3)
	b := QuatFromAxisAngle(Vec3UnitX, 1.8)
	assertQuatNear(t, a, a.Slerp(b, 0), 1e-5)
	assertQuatNear(t, b, a.Slerp(b, 1), 1e-5)

	// t is clamped.
	assertQuatNear(t, a, a.Slerp(b, -3), 1e-5)
	assertQuatNear(t, b, a.Slerp(b, 5), 1e-5)
}

func TestSlerpMidpointOnUnitSphere(t *testing.T) {
	a := QuatFromAxisAngle(Vec3UnitY, 0.2)
	b := QuatFromAxisAngle(Vec3UnitZ, 2.5)
	mid := a.Slerp(b, 0.5)
	assert.InDelta(t, 1, float64(mid.Length()), 1e-4)
}

func TestSlerpTakesShortestPath(t *testing.T) {
	a := QuatFromAxisAngle(Vec3UnitY, 0.1)
	b := QuatFromAxisAngle(Vec3UnitY, 0.4)
	neg := Quat{-b.X, -b.Y, -b.Z, -b.W}
	// Interpolating toward the negated endpoint must produce the same
	// rotation as toward the original.
	assertQuatNear(t, a.Slerp(b, 0.5), a.Slerp(neg, 0.5), 1e-4)
}

func TestSlerpNearParallelFallsBackToNlerp(t *testing.T) {
	a := QuatFromAxisAngle(Vec3UnitY, 0.100)
	b := QuatFromAxisAngle(Vec3UnitY, 0.1000001)
	mid := a.Slerp(b, 0.5)
	assert.InDelta(t, 1, float64(mid.Length()), 1e-5)
}

func TestQuatFromZeroAxisIsIdentity(t *testing.T) {
	assert.Equal(t, QuatIdentity(), QuatFromAxisAngle(Vec3{}, 1.3))
}
