package physics

import (
	"github.com/quartzengine/quartz/lin"
)

// normalEpsilon is the center distance below which the contact normal
// degenerates and falls back to world up.
const normalEpsilon float32 = 1e-4

// ContactManifold describes one contact between two bodies. The
// normal points from body A toward body B, depth is the penetration
// (>= 0), and the point is in world coordinates.
type ContactManifold struct {
	Normal lin.Vec3
	Depth  float32
	Point  lin.Vec3
}

// Inverted swaps the manifold's implicit A/B roles by negating the
// normal.
func (m ContactManifold) Inverted() ContactManifold {
	m.Normal = m.Normal.Neg()
	return m
}

// NarrowPhase computes exact contact information for candidate pairs
// emitted by the broadphase.
type NarrowPhase struct{}

// NewNarrowPhase creates a narrowphase.
func NewNarrowPhase() *NarrowPhase { return &NarrowPhase{} }

// Detect returns the contact manifold between two posed shapes, or
// false when they do not touch. Supported pairs are sphere/sphere and
// sphere/box (either order); all other pairings report no contact.
func (n *NarrowPhase) Detect(shapeA ColliderShape, transA lin.AffineTransform, shapeB ColliderShape, transB lin.AffineTransform) (ContactManifold, bool) {
	switch {
	case shapeA.Kind == ShapeSphere && shapeB.Kind == ShapeSphere:
		return sphereSphere(shapeA.Radius, transA, shapeB.Radius, transB)
	case shapeA.Kind == ShapeSphere && shapeB.Kind == ShapeBox:
		return sphereBox(shapeA.Radius, transA, shapeB.HalfExtents, transB)
	case shapeA.Kind == ShapeBox && shapeB.Kind == ShapeSphere:
		m, ok := sphereBox(shapeB.Radius, transB, shapeA.HalfExtents, transA)
		if !ok {
			return ContactManifold{}, false
		}
		return m.Inverted(), true
	default:
		return ContactManifold{}, false
	}
}

func sphereSphere(ra float32, transA lin.AffineTransform, rb float32, transB lin.AffineTransform) (ContactManifold, bool) {
	pa := transA.Translation()
	pb := transB.Translation()
	delta := pb.Sub(pa)
	distSq := delta.LengthSquared()
	totalR := ra + rb
	if distSq >= totalR*totalR {
		return ContactManifold{}, false
	}

	dist := delta.Length()
	normal := lin.Vec3UnitY
	if dist > normalEpsilon {
		normal = delta.Div(dist)
	}
	return ContactManifold{
		Normal: normal,
		Depth:  totalR - dist,
		Point:  pa.Add(normal.Mul(ra)),
	}, true
}

func sphereBox(radius float32, sphereTrans lin.AffineTransform, half lin.Vec3, boxTrans lin.AffineTransform) (ContactManifold, bool) {
	center := sphereTrans.Translation()

	invBox, err := boxTrans.Inverse()
	if err != nil {
		return ContactManifold{}, false
	}
	local := invBox.TransformPoint(center)

	closest := local.Max(half.Neg()).Min(half)
	delta := local.Sub(closest)
	distSq := delta.LengthSquared()
	if distSq >= radius*radius {
		return ContactManifold{}, false
	}

	dist := delta.Length()
	localNormal := lin.Vec3UnitY
	if dist > normalEpsilon {
		localNormal = delta.Div(dist)
	}
	return ContactManifold{
		Normal: boxTrans.Rotation().RotateVec3(localNormal),
		Depth:  radius - dist,
		Point:  boxTrans.TransformPoint(closest),
	}, true
}
