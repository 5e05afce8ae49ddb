package lin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// lcg is a tiny deterministic generator for property-style tests.
type lcg struct{ state uint64 }

func (r *lcg) next() float32 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return float32(int32(r.state>>32)) / float32(1<<31) * 10
}

func (r *lcg) vec3() Vec3 { return Vec3{r.next(), r.next(), r.next()} }

func assertVec3Near(t *testing.T, want, got Vec3, tol float32) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, float64(tol))
	assert.InDelta(t, want.Y, got.Y, float64(tol))
	assert.InDelta(t, want.Z, got.Z, float64(tol))
}

func TestVec3NormalizeRoundTrip(t *testing.T) {
	r := &lcg{state: 1}
	for i := 0; i < 100; i++ {
		v := r.vec3()
		if v.Length() < Epsilon {
			continue
		}
		back := v.Normalize().Mul(v.Length())
		assertVec3Near(t, v, back, 1e-3)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.Equal(t, Vec3{}, Vec3{X: 1e-9}.Normalize())
}

func TestVec3Cross(t *testing.T) {
	assert.Equal(t, Vec3UnitZ, Vec3UnitX.Cross(Vec3UnitY))
	assert.Equal(t, Vec3UnitX, Vec3UnitY.Cross(Vec3UnitZ))

	r := &lcg{state: 7}
	for i := 0; i < 50; i++ {
		a, b := r.vec3(), r.vec3()
		c := a.Cross(b)
		assert.InDelta(t, 0, c.Dot(a), 1e-2)
		assert.InDelta(t, 0, c.Dot(b), 1e-2)
	}
}

func TestVec3LerpClamps(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(2, 4, 6)
	assert.Equal(t, a, a.Lerp(b, -1))
	assert.Equal(t, b, a.Lerp(b, 2))
	assertVec3Near(t, V3(1, 2, 3), a.Lerp(b, 0.5), 1e-6)
}

func TestVec3Axis(t *testing.T) {
	v := V3(1, 2, 3)
	assert.Equal(t, float32(1), v.Axis(0))
	assert.Equal(t, float32(2), v.Axis(1))
	assert.Equal(t, float32(3), v.Axis(2))
}

func TestVec4Truncate(t *testing.T) {
	assert.Equal(t, V3(1, 2, 3), V4(1, 2, 3, 4).Truncate())
	assert.Equal(t, V4(1, 2, 3, 0.5), FromVec3(V3(1, 2, 3), 0.5))
}
