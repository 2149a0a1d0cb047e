// Package geom holds the small amount of 3-D math shared by the sketch,
// scene and extrusion packages. Vectors are sdfx's v3.Vec so values flow
// into the sdfx kernel without conversion.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is a 3-D vector or point.
type Vec = v3.Vec

// Tolerance is the default absolute tolerance for geometric comparisons.
const Tolerance = 1e-9

// World unit axes.
var (
	UnitX = Vec{X: 1}
	UnitY = Vec{Y: 1}
	UnitZ = Vec{Z: 1}
)

// Axis names one of the three local axes of a frame.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Unit returns the canonical unit vector of the axis.
func (a Axis) Unit() Vec {
	switch a {
	case AxisX:
		return UnitX
	case AxisY:
		return UnitY
	default:
		return UnitZ
	}
}

// Component returns the coordinate of v along axis a.
func Component(v Vec, a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns v with its coordinate along a replaced by value.
func WithComponent(v Vec, a Axis, value float64) Vec {
	switch a {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// DominantAxis returns the axis with the largest-magnitude component of v
// and the sign of that component. Ties resolve to the lower axis.
func DominantAxis(v Vec) (Axis, float64) {
	best := AxisX
	mag := math.Abs(v.X)
	if m := math.Abs(v.Y); m > mag {
		best, mag = AxisY, m
	}
	if m := math.Abs(v.Z); m > mag {
		best = AxisZ
	}
	return best, Sign(Component(v, best))
}

// Sign returns -1 for negative x and +1 otherwise, so zero never flips a
// direction.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// NearlyZero reports whether |x| <= tol.
func NearlyZero(x, tol float64) bool {
	return math.Abs(x) <= tol
}

// SafeNormalize returns v scaled to unit length, or fallback when v is too
// short to carry a direction.
func SafeNormalize(v, fallback Vec) Vec {
	l := v.Length()
	if l < 1e-12 || math.IsNaN(l) {
		return fallback
	}
	return v.MulScalar(1 / l)
}

// IsFinite reports whether every coordinate of v is a finite number.
func IsFinite(v Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Distance returns |a - b|.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Length()
}

// VecNearlyEqual reports whether a and b agree within tol on every axis.
func VecNearlyEqual(a, b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
