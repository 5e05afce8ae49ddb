package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzengine/quartz/lin"
)

func at(x, y, z float32) lin.AffineTransform {
	return lin.AffineFromTranslation(lin.V3(x, y, z))
}

func TestSphereSphereOverlap(t *testing.T) {
	n := NewNarrowPhase()
	m, ok := n.Detect(Sphere(1), at(0, 0, 0), Sphere(1), at(1.5, 0, 0))
	require.True(t, ok)

	assert.InDelta(t, 1.0, float64(m.Normal.X), 1e-3)
	assert.InDelta(t, 0.5, float64(m.Depth), 1e-3)
	// Contact point sits on A's surface along the normal.
	assert.InDelta(t, 1.0, float64(m.Point.X), 1e-3)
}

func TestSphereSphereSeparated(t *testing.T) {
	n := NewNarrowPhase()
	_, ok := n.Detect(Sphere(1), at(0, 0, 0), Sphere(1), at(3, 0, 0))
	assert.False(t, ok)
}

func TestSphereSphereCoincidentFallsBackToUp(t *testing.T) {
	n := NewNarrowPhase()
	m, ok := n.Detect(Sphere(1), at(0, 0, 0), Sphere(1), at(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, lin.Vec3UnitY, m.Normal)
	assert.InDelta(t, 2.0, float64(m.Depth), 1e-5)
}

func TestSphereBoxFaceContact(t *testing.T) {
	n := NewNarrowPhase()
	// Unit sphere just inside the +X face of a unit box.
	m, ok := n.Detect(Sphere(1), at(1.8, 0, 0), Box(lin.Splat3(1)), at(0, 0, 0))
	require.True(t, ok)

	assert.InDelta(t, 1.0, float64(m.Normal.X), 1e-3)
	assert.InDelta(t, 0.2, float64(m.Depth), 1e-3)
	// Closest point on the box surface.
	assert.InDelta(t, 1.0, float64(m.Point.X), 1e-3)
}

func TestBoxSphereMirrorsManifold(t *testing.T) {
	n := NewNarrowPhase()
	direct, ok := n.Detect(Sphere(1), at(1.8, 0, 0), Box(lin.Splat3(1)), at(0, 0, 0))
	require.True(t, ok)

	mirrored, ok := n.Detect(Box(lin.Splat3(1)), at(0, 0, 0), Sphere(1), at(1.8, 0, 0))
	require.True(t, ok)

	assert.InDelta(t, float64(-direct.Normal.X), float64(mirrored.Normal.X), 1e-5)
	assert.InDelta(t, float64(direct.Depth), float64(mirrored.Depth), 1e-5)
	assert.InDelta(t, float64(direct.Point.X), float64(mirrored.Point.X), 1e-5)
}

func TestSphereRotatedBox(t *testing.T) {
	n := NewNarrowPhase()
	// A box rotated 45 degrees about Y: its +X face normal rotates
	// with it.
	rot := lin.QuatFromAxisAngle(lin.Vec3UnitY, math.Pi/4)
	boxTrans := lin.AffineTRS(lin.Vec3{}, rot, lin.Vec3One)

	// Place the sphere along the rotated face normal.
	dir := rot.RotateVec3(lin.Vec3UnitX)
	m, ok := n.Detect(Sphere(1), lin.AffineFromTranslation(dir.Mul(1.8)), Box(lin.Splat3(1)), boxTrans)
	require.True(t, ok)

	assert.InDelta(t, float64(dir.X), float64(m.Normal.X), 1e-3)
	assert.InDelta(t, float64(dir.Z), float64(m.Normal.Z), 1e-3)
	assert.InDelta(t, 0.2, float64(m.Depth), 1e-3)
}

func TestSphereInsideBoxCenterFallsBackToUp(t *testing.T) {
	n := NewNarrowPhase()
	m, ok := n.Detect(Sphere(0.5), at(0, 0, 0), Box(lin.Splat3(1)), at(0, 0, 0))
	require.True(t, ok)
	// Sphere center clamps to itself; the degenerate normal falls
	// back to up.
	assert.Equal(t, lin.Vec3UnitY, m.Normal)
}

func TestUnsupportedPairsReportNoContact(t *testing.T) {
	n := NewNarrowPhase()
	_, ok := n.Detect(Box(lin.Splat3(1)), at(0, 0, 0), Box(lin.Splat3(1)), at(0.5, 0, 0))
	assert.False(t, ok)

	_, ok = n.Detect(Capsule(1, 0.5), at(0, 0, 0), Sphere(1), at(0.5, 0, 0))
	assert.False(t, ok)
}

func TestManifoldInverted(t *testing.T) {
	m := ContactManifold{Normal: lin.V3(1, 0, 0), Depth: 0.3, Point: lin.V3(1, 2, 3)}
	inv := m.Inverted()
	assert.Equal(t, lin.V3(-1, 0, 0), inv.Normal)
	assert.Equal(t, m.Depth, inv.Depth)
	assert.Equal(t, m.Point, inv.Point)
}
