// Package physics provides the rigid-body narrowphase and the
// impulse-based contact solver, plus the provider contract a full
// simulation backend implements.
package physics

import (
	"github.com/quartzengine/quartz/lin"
)

// BodyType defines how a rigid body participates in simulation.
type BodyType int

const (
	// BodyDynamic responds to forces and collisions.
	BodyDynamic BodyType = iota
	// BodyStatic is fixed in place.
	BodyStatic
	// BodyKinematic is user-driven and ignores forces.
	BodyKinematic
)

// String returns the body type name.
func (t BodyType) String() string {
	switch t {
	case BodyDynamic:
		return "Dynamic"
	case BodyStatic:
		return "Static"
	case BodyKinematic:
		return "Kinematic"
	default:
		return "Unknown"
	}
}

// RigidBodyHandle is an opaque handle to a rigid body in a provider.
type RigidBodyHandle uint64

// ColliderHandle is an opaque handle to a collider in a provider.
type ColliderHandle uint64

// RigidBodyDesc describes a rigid body to create.
type RigidBodyDesc struct {
	Position        lin.Vec3
	Rotation        lin.Quat
	BodyType        BodyType
	LinearVelocity  lin.Vec3
	AngularVelocity lin.Vec3
	// Mass in kilograms; meaningful for dynamic bodies only.
	Mass float32
}

// ColliderDesc describes a collider to attach.
type ColliderDesc struct {
	// ParentBody is zero for a world-anchored collider.
	ParentBody RigidBodyHandle
	Position   lin.Vec3
	Rotation   lin.Quat
	Shape      ColliderShape
}

// ShapeKind discriminates collider shapes.
type ShapeKind int

const (
	// ShapeSphere is a sphere around the collider origin.
	ShapeSphere ShapeKind = iota
	// ShapeBox is a box described by half extents.
	ShapeBox
	// ShapeCapsule is a capsule along the local Y axis.
	ShapeCapsule
)

// ColliderShape is a tagged shape description.
type ColliderShape struct {
	Kind ShapeKind
	// Radius applies to spheres and capsules.
	Radius float32
	// HalfExtents applies to boxes.
	HalfExtents lin.Vec3
	// HalfHeight applies to capsules.
	HalfHeight float32
}

// Sphere builds a sphere shape.
func Sphere(radius float32) ColliderShape {
	return ColliderShape{Kind: ShapeSphere, Radius: radius}
}

// Box builds a box shape from half extents.
func Box(halfExtents lin.Vec3) ColliderShape {
	return ColliderShape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Capsule builds a capsule shape.
func Capsule(halfHeight, radius float32) ColliderShape {
	return ColliderShape{Kind: ShapeCapsule, HalfHeight: halfHeight, Radius: radius}
}

// Provider is the contract a full physics backend implements. The
// engine core talks to the simulation exclusively through this
// interface.
type Provider interface {
	// Step advances the simulation by dt seconds.
	Step(dt float32)

	// SetGravity sets the global gravity vector.
	SetGravity(gravity lin.Vec3)

	// AddBody adds a rigid body.
	AddBody(desc RigidBodyDesc) RigidBodyHandle

	// RemoveBody removes a rigid body.
	RemoveBody(handle RigidBodyHandle)

	// AddCollider attaches a collider.
	AddCollider(desc ColliderDesc) ColliderHandle

	// RemoveCollider removes a collider.
	RemoveCollider(handle ColliderHandle)

	// BodyTransform reads a body's position and rotation.
	BodyTransform(handle RigidBodyHandle) (lin.Vec3, lin.Quat)

	// SetBodyTransform teleports a body.
	SetBodyTransform(handle RigidBodyHandle, position lin.Vec3, rotation lin.Quat)
}
