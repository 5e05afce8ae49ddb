package physics

import (
	"github.com/quartzengine/quartz/lin"
)

// Default solver tuning.
const (
	// DefaultRestitution is the coefficient of restitution.
	DefaultRestitution float32 = 0.2
	// DefaultBaumgartePercent is the fraction of penetration resolved
	// per step.
	DefaultBaumgartePercent float32 = 0.2
	// DefaultSlop is the penetration allowance that avoids jitter.
	DefaultSlop float32 = 0.01
)

// VelocityState is the physical state of a body relevant to impulse
// resolution. Angular velocity is carried but untouched by this
// solver; friction and rolling belong to a later pass.
type VelocityState struct {
	LinearVelocity  lin.Vec3
	AngularVelocity lin.Vec3
	Mass            float32
	BodyType        BodyType
}

// ImpulseSolver resolves contacts with impulses and Baumgarte
// positional stabilization applied as a velocity correction.
type ImpulseSolver struct {
	Restitution      float32
	BaumgartePercent float32
	Slop             float32
}

// NewImpulseSolver creates a solver with the default constants.
func NewImpulseSolver() *ImpulseSolver {
	return &ImpulseSolver{
		Restitution:      DefaultRestitution,
		BaumgartePercent: DefaultBaumgartePercent,
		Slop:             DefaultSlop,
	}
}

// Resolve applies the contact impulse for one manifold and returns
// the updated states. Static-static pairs, separating contacts, and
// pairs with no inverse mass are returned unchanged.
func (s *ImpulseSolver) Resolve(a, b VelocityState, manifold ContactManifold) (VelocityState, VelocityState) {
	if a.BodyType == BodyStatic && b.BodyType == BodyStatic {
		return a, b
	}

	// Relative velocity along the contact normal.
	rv := b.LinearVelocity.Sub(a.LinearVelocity)
	velAlongNormal := rv.Dot(manifold.Normal)

	// Already separating: no impulse needed.
	if velAlongNormal > 0 {
		return a, b
	}

	var invMassA, invMassB float32
	if a.BodyType == BodyDynamic {
		invMassA = 1 / a.Mass
	}
	if b.BodyType == BodyDynamic {
		invMassB = 1 / b.Mass
	}
	totalInvMass := invMassA + invMassB
	if totalInvMass <= 0 {
		return a, b
	}

	// Impulse magnitude.
	j := -(1 + s.Restitution) * velAlongNormal / totalInvMass
	impulse := manifold.Normal.Mul(j)
	if a.BodyType == BodyDynamic {
		a.LinearVelocity = a.LinearVelocity.Sub(impulse.Mul(invMassA))
	}
	if b.BodyType == BodyDynamic {
		b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(invMassB))
	}

	// Baumgarte stabilization as a velocity delta: penetration beyond
	// the slop is pushed out proportionally.
	correctionMag := max(manifold.Depth-s.Slop, 0) / totalInvMass * s.BaumgartePercent
	correction := manifold.Normal.Mul(correctionMag)
	if a.BodyType == BodyDynamic {
		a.LinearVelocity = a.LinearVelocity.Sub(correction.Mul(invMassA))
	}
	if b.BodyType == BodyDynamic {
		b.LinearVelocity = b.LinearVelocity.Add(correction.Mul(invMassB))
	}

	return a, b
}
