package geom

import "math"

// Rotation is a proper orthonormal frame. X, Y and Z are the world
// directions of the frame's local axes, i.e. the columns of the rotation
// matrix. Mapping local to world is a linear combination of the columns and
// the inverse is the transpose.
type Rotation struct {
	X, Y, Z Vec
}

// Identity returns the rotation that leaves every vector unchanged.
func Identity() Rotation {
	return Rotation{X: UnitX, Y: UnitY, Z: UnitZ}
}

// FromBasis builds a rotation whose local axes map onto x, y and z.
// The caller guarantees the basis is orthonormal and right-handed.
func FromBasis(x, y, z Vec) Rotation {
	return Rotation{X: x, Y: y, Z: z}
}

// Axis returns the world direction of local axis a.
func (r Rotation) Axis(a Axis) Vec {
	switch a {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	default:
		return r.Z
	}
}

// Apply maps a local-frame vector into world space.
func (r Rotation) Apply(v Vec) Vec {
	return r.X.MulScalar(v.X).Add(r.Y.MulScalar(v.Y)).Add(r.Z.MulScalar(v.Z))
}

// ApplyInverse maps a world vector into the local frame.
func (r Rotation) ApplyInverse(v Vec) Vec {
	return Vec{X: v.Dot(r.X), Y: v.Dot(r.Y), Z: v.Dot(r.Z)}
}

// Inverse returns the transpose of r.
func (r Rotation) Inverse() Rotation {
	return Rotation{
		X: Vec{X: r.X.X, Y: r.Y.X, Z: r.Z.X},
		Y: Vec{X: r.X.Y, Y: r.Y.Y, Z: r.Z.Y},
		Z: Vec{X: r.X.Z, Y: r.Y.Z, Z: r.Z.Z},
	}
}

// Mul returns the composition r·o: o is applied first.
func (r Rotation) Mul(o Rotation) Rotation {
	return Rotation{X: r.Apply(o.X), Y: r.Apply(o.Y), Z: r.Apply(o.Z)}
}

// AxisAngle returns the right-handed rotation of radians about axis.
// A zero axis yields the identity.
func AxisAngle(axis Vec, radians float64) Rotation {
	k := SafeNormalize(axis, Vec{})
	if k == (Vec{}) {
		return Identity()
	}
	c, s := math.Cos(radians), math.Sin(radians)
	rot := func(v Vec) Vec {
		return v.MulScalar(c).
			Add(k.Cross(v).MulScalar(s)).
			Add(k.MulScalar(k.Dot(v) * (1 - c)))
	}
	return Rotation{X: rot(UnitX), Y: rot(UnitY), Z: rot(UnitZ)}
}

// Orthonormalize re-derives an exact orthonormal frame from r with
// Gram-Schmidt, keeping X's direction. Repeated compositions drift.
func (r Rotation) Orthonormalize() Rotation {
	x := SafeNormalize(r.X, UnitX)
	y := SafeNormalize(r.Y.Sub(x.MulScalar(r.Y.Dot(x))), UnitY)
	z := x.Cross(y)
	return Rotation{X: x, Y: y, Z: z}
}

// EulerDegrees decomposes r as Rz(z)·Ry(y)·Rx(x), the order the kernel's
// Rotate applies, and returns the angles in degrees.
func (r Rotation) EulerDegrees() (x, y, z float64) {
	// Row 2 of the matrix is (r.X.Z, r.Y.Z, r.Z.Z).
	sy := -r.X.Z
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	if math.Abs(sy) > 1-1e-9 {
		// Gimbal lock: fold the z rotation into x.
		y = math.Copysign(math.Pi/2, sy)
		if sy > 0 {
			x = math.Atan2(r.Y.X, r.Y.Y)
		} else {
			x = math.Atan2(-r.Y.X, r.Y.Y)
		}
		return rad2deg(x), rad2deg(y), 0
	}
	y = math.Asin(sy)
	x = math.Atan2(r.Y.Z, r.Z.Z)
	z = math.Atan2(r.X.Y, r.X.X)
	return rad2deg(x), rad2deg(y), rad2deg(z)
}

// Equals reports whether every column agrees within tol.
func (r Rotation) Equals(o Rotation, tol float64) bool {
	return VecNearlyEqual(r.X, o.X, tol) && VecNearlyEqual(r.Y, o.Y, tol) && VecNearlyEqual(r.Z, o.Z, tol)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func rad2deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
