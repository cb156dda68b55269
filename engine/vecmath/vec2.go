package vecmath

import "math"

// Vec2 is a 2D vector in scene units
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return math.Hypot(v.X-o.X, v.Y-o.Y) }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) Angle() float64       { return math.Atan2(v.Y, v.X) }

// Normalize returns the unit vector, or zero for a (near) zero vector
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-10 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Limit caps the magnitude at max, keeping direction
func (v Vec2) Limit(max float64) Vec2 {
	if max <= 0 {
		return Vec2{}
	}
	lsq := v.LenSq()
	if lsq <= max*max {
		return v
	}
	return v.Scale(max / math.Sqrt(lsq))
}

// FromAngle returns the unit vector pointing at angle a (radians, 0 = +X)
func FromAngle(a float64) Vec2 {
	return Vec2{math.Cos(a), math.Sin(a)}
}

// AngleBetween returns the unsigned angle between a and b in [0, π].
// Zero vectors yield 0.
func AngleBetween(a, b Vec2) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-10 || lb < 1e-10 {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
