package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector used for particle state
// Value type: every operation returns a new vector, inputs are never mutated
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

// V3FDiv divides each component by s, s == 0 yields Inf/NaN components like plain float division
func V3FDiv(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X / s, v.Y / s, v.Z / s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FDist returns the euclidean distance between two points
func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(b, a))
}

// V3FNormalize returns the unit vector of v, zero vector stays zero
func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FClampMagnitude rescales v to exactly limit when |v| > limit
// NOTE: a vector already within limit yields the ZERO vector, not v
// Flocking steering depends on this: weak steering is dropped entirely
// Use V3FLimit for a conventional cap
func V3FClampMagnitude(v Vec3F, limit float64) Vec3F {
	mag := V3FMag(v)
	if mag > limit {
		return V3FScale(V3FDiv(v, mag), limit)
	}
	return Vec3F{}
}

// V3FLimit caps |v| at limit, returning v unchanged when already within
func V3FLimit(v Vec3F, limit float64) Vec3F {
	mag := V3FMag(v)
	if mag > limit {
		return V3FScale(v, limit/mag)
	}
	return v
}

// V3FRotateZ rotates v around the Z axis by angle radians
func V3FRotateZ(v Vec3F, angle float64) Vec3F {
	sin, cos := math.Sincos(angle)
	return Vec3F{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
		Z: v.Z,
	}
}

// V3FRotateX rotates v around the X axis by angle radians
func V3FRotateX(v Vec3F, angle float64) Vec3F {
	sin, cos := math.Sincos(angle)
	return Vec3F{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// V3FAxis returns the component for axis 0=X, 1=Y, 2=Z
func V3FAxis(v Vec3F, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// V3FSetAxis returns v with the component for axis replaced
func V3FSetAxis(v Vec3F, axis int, val float64) Vec3F {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// V3FIsFinite reports whether no component is NaN or Inf
func V3FIsFinite(v Vec3F) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
