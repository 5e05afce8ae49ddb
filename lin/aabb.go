package lin

import "math"

// Aabb is an axis-aligned bounding box described by its minimum and
// maximum corners. The zero value is a point box at the origin;
// EmptyAabb returns the neutral element for Merge: min at +Inf and max
// at -Inf.
type Aabb struct {
	Min, Max Vec3
}

// EmptyAabb returns the identity element for Merge. It contains no
// points and merging it with any box yields that box.
func EmptyAabb() Aabb {
	inf := float32(math.Inf(1))
	return Aabb{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// AabbFromMinMax builds a box from two corners, canonicalizing each
// coordinate so Min <= Max holds per axis.
func AabbFromMinMax(a, b Vec3) Aabb {
	return Aabb{Min: a.Min(b), Max: a.Max(b)}
}

// AabbFromPoint returns a degenerate box containing a single point.
func AabbFromPoint(p Vec3) Aabb { return Aabb{Min: p, Max: p} }

// AabbFromPoints returns the smallest box containing all points, or the
// empty box for an empty slice.
func AabbFromPoints(points []Vec3) Aabb {
	box := EmptyAabb()
	for _, p := range points {
		box = box.MergePoint(p)
	}
	return box
}

// AabbFromCenterExtents builds a box from a center and absolute
// half-extents.
func AabbFromCenterExtents(center, halfExtents Vec3) Aabb {
	e := halfExtents.Abs()
	return Aabb{Min: center.Sub(e), Max: center.Add(e)}
}

// Center returns the midpoint of the box.
func (a Aabb) Center() Vec3 { return a.Min.Add(a.Max).Mul(0.5) }

// Size returns the per-axis extent of the box.
func (a Aabb) Size() Vec3 { return a.Max.Sub(a.Min) }

// HalfExtents returns half the per-axis extent.
func (a Aabb) HalfExtents() Vec3 { return a.Size().Mul(0.5) }

// SurfaceArea returns the total surface area of the box. Used as the
// cost metric for tree insertion.
func (a Aabb) SurfaceArea() float32 {
	d := a.Size()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// ContainsPoint reports whether p lies inside the box, boundary
// included.
func (a Aabb) ContainsPoint(p Vec3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// ContainsAabb reports whether o lies entirely inside the box.
func (a Aabb) ContainsAabb(o Aabb) bool {
	return a.Min.X <= o.Min.X && a.Min.Y <= o.Min.Y && a.Min.Z <= o.Min.Z &&
		a.Max.X >= o.Max.X && a.Max.Y >= o.Max.Y && a.Max.Z >= o.Max.Z
}

// Intersects reports whether the two boxes overlap, boundary contact
// included.
func (a Aabb) Intersects(o Aabb) bool {
	return a.Min.X <= o.Max.X && a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y && a.Max.Y >= o.Min.Y &&
		a.Min.Z <= o.Max.Z && a.Max.Z >= o.Min.Z
}

// Merge returns the smallest box containing both boxes.
func (a Aabb) Merge(o Aabb) Aabb {
	return Aabb{Min: a.Min.Min(o.Min), Max: a.Max.Max(o.Max)}
}

// MergePoint returns the smallest box containing the box and p.
func (a Aabb) MergePoint(p Vec3) Aabb {
	return Aabb{Min: a.Min.Min(p), Max: a.Max.Max(p)}
}

// Expand returns the box grown by margin on every side.
func (a Aabb) Expand(margin float32) Aabb {
	e := Splat3(margin)
	return Aabb{Min: a.Min.Sub(e), Max: a.Max.Add(e)}
}

// Transform returns the axis-aligned box of the transformed box. The
// new half-extents are the absolute column projections of the extents
// (|M_x|*e_x + |M_y|*e_y + |M_z|*e_z); the center goes through the
// full homogeneous transform.
func (a Aabb) Transform(m Mat4) Aabb {
	center := m.TransformPoint(a.Center())
	e := a.HalfExtents()
	ax := m.Cols[0].Truncate().Abs().Mul(e.X)
	ay := m.Cols[1].Truncate().Abs().Mul(e.Y)
	az := m.Cols[2].Truncate().Abs().Mul(e.Z)
	newExtents := ax.Add(ay).Add(az)
	return AabbFromCenterExtents(center, newExtents)
}
