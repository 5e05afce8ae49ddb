package lin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyAabbIsMergeIdentity(t *testing.T) {
	box := AabbFromMinMax(V3(-1, -2, -3), V3(4, 5, 6))
	assert.Equal(t, box, EmptyAabb().Merge(box))
	assert.Equal(t, box, box.Merge(EmptyAabb()))
}

func TestAabbFromMinMaxCanonicalizes(t *testing.T) {
	box := AabbFromMinMax(V3(4, -2, 6), V3(-1, 5, -3))
	assert.Equal(t, V3(-1, -2, -3), box.Min)
	assert.Equal(t, V3(4, 5, 6), box.Max)
}

func TestAabbFromPoints(t *testing.T) {
	pts := []Vec3{{1, 0, 0}, {-2, 3, 1}, {0, -1, 5}}
	box := AabbFromPoints(pts)
	assert.Equal(t, V3(-2, -1, 0), box.Min)
	assert.Equal(t, V3(1, 3, 5), box.Max)

	for _, p := range pts {
		assert.True(t, box.ContainsPoint(p))
	}
}

func TestAabbContainmentClosedBoundary(t *testing.T) {
	box := AabbFromMinMax(V3(0, 0, 0), V3(1, 1, 1))
	assert.True(t, box.ContainsPoint(V3(1, 1, 1)))
	assert.True(t, box.ContainsPoint(V3(0, 0, 0)))
	assert.False(t, box.ContainsPoint(V3(1.0001, 0.5, 0.5)))
}

func TestAabbIntersectsTouching(t *testing.T) {
	a := AabbFromMinMax(V3(0, 0, 0), V3(1, 1, 1))
	b := AabbFromMinMax(V3(1, 0, 0), V3(2, 1, 1))
	c := AabbFromMinMax(V3(1.1, 0, 0), V3(2, 1, 1))
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestAabbSurfaceArea(t *testing.T) {
	box := AabbFromCenterExtents(Vec3{}, V3(1, 2, 3))
	// Size (2,4,6): 2*(8+24+12) = 88.
	assert.InDelta(t, 88, float64(box.SurfaceArea()), 1e-5)
	assert.Equal(t, float32(0), EmptyAabb().SurfaceArea())
}

func TestAabbTransformTranslation(t *testing.T) {
	unit := AabbFromCenterExtents(Vec3{}, Vec3One)
	moved := unit.Transform(Mat4Translation(V3(10, 0, 0)))
	assertVec3Near(t, V3(9, -1, -1), moved.Min, 1e-6)
	assertVec3Near(t, V3(11, 1, 1), moved.Max, 1e-6)
}

func TestAabbTransformRotation(t *testing.T) {
	unit := AabbFromCenterExtents(Vec3{}, Vec3One)
	rotated := unit.Transform(Mat4RotationY(math.Pi / 4))
	s := float32(math.Sqrt2)
	assertVec3Near(t, V3(-s, -1, -s), rotated.Min, 1e-6)
	assertVec3Near(t, V3(s, 1, s), rotated.Max, 1e-6)
}

func TestAabbExpand(t *testing.T) {
	box := AabbFromPoint(V3(1, 1, 1)).Expand(0.5)
	assert.Equal(t, V3(0.5, 0.5, 0.5), box.Min)
	assert.Equal(t, V3(1.5, 1.5, 1.5), box.Max)
}
