package lin

import "math"

// Epsilon is the tolerance below which lengths and determinants are
// treated as zero.
const Epsilon float32 = 1e-6

func sqrt32(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vec2 is a two-component float32 vector.
type Vec2 struct {
	X, Y float32
}

// V2 constructs a Vec2.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the vector scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// LengthSquared returns the squared length of the vector.
func (v Vec2) LengthSquared() float32 { return v.Dot(v) }

// Length returns the length of the vector.
func (v Vec2) Length() float32 { return sqrt32(v.LengthSquared()) }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v is shorter than Epsilon.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp linearly interpolates between v and o. t is clamped to [0, 1].
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	t = clamp32(t, 0, 1)
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Vec3 is a three-component float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3 constants.
var (
	Vec3Zero  = Vec3{}
	Vec3One   = Vec3{1, 1, 1}
	Vec3UnitX = Vec3{X: 1}
	Vec3UnitY = Vec3{Y: 1}
	Vec3UnitZ = Vec3{Z: 1}
)

// V3 constructs a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Splat3 returns a Vec3 with all components set to s.
func Splat3(s float32) Vec3 { return Vec3{s, s, s} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// MulVec returns the component-wise product of v and o.
func (v Vec3) MulVec(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div returns the vector divided by s.
func (v Vec3) Div(s float32) Vec3 { return Vec3{v.X / s, v.Y / s, v.Z / s} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared returns the squared length of the vector.
func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

// Length returns the length of the vector.
func (v Vec3) Length() float32 { return sqrt32(v.LengthSquared()) }

// Distance returns the distance between v and o.
func (v Vec3) Distance(o Vec3) float32 { return v.Sub(o).Length() }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v is shorter than Epsilon.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Div(l)
}

// Lerp linearly interpolates between v and o. t is clamped to [0, 1].
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	t = clamp32(t, 0, 1)
	return v.Add(o.Sub(v).Mul(t))
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

// Abs returns the component-wise absolute value of v.
func (v Vec3) Abs() Vec3 { return Vec3{abs32(v.X), abs32(v.Y), abs32(v.Z)} }

// Axis returns the component selected by i (0 = X, 1 = Y, 2 = Z).
func (v Vec3) Axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Vec4 is a four-component float32 vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// V4 constructs a Vec4.
func V4(x, y, z, w float32) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

// FromVec3 widens a Vec3 with the given w component.
func FromVec3(v Vec3, w float32) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// Truncate drops the w component.
func (v Vec4) Truncate() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Add returns v + o.
func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }

// Sub returns v - o.
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }

// Mul returns the vector scaled by s.
func (v Vec4) Mul(s float32) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Dot returns the dot product of v and o.
func (v Vec4) Dot(o Vec4) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

// LengthSquared returns the squared length of the vector.
func (v Vec4) LengthSquared() float32 { return v.Dot(v) }

// Length returns the length of the vector.
func (v Vec4) Length() float32 { return sqrt32(v.LengthSquared()) }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v is shorter than Epsilon.
func (v Vec4) Normalize() Vec4 {
	l := v.Length()
	if l < Epsilon {
		return Vec4{}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}
