package sketch

import "github.com/chazu/kerf/pkg/geom"

// ToWorld maps plane-local (u, v, h) to world space:
// Origin + u·U + v·V + h·Normal.
func ToWorld(p *Plane, u, v, h float64) geom.Vec {
	return p.Origin.
		Add(p.U.MulScalar(u)).
		Add(p.V.MulScalar(v)).
		Add(p.Normal.MulScalar(h))
}

// ToLocal is the inverse of ToWorld. The basis is orthonormal, so each
// coordinate is a dot product against one axis.
func ToLocal(p *Plane, world geom.Vec) (u, v, h float64) {
	d := world.Sub(p.Origin)
	return d.Dot(p.U), d.Dot(p.V), d.Dot(p.Normal)
}

// DirectionToWorld maps a plane-local direction (no origin offset).
func DirectionToWorld(p *Plane, u, v, h float64) geom.Vec {
	return p.Frame().Apply(geom.Vec{X: u, Y: v, Z: h})
}

// NormalToLocalAxis expresses a world unit vector in a solid's local frame
// by applying the inverse of the solid's orientation. The result tells
// which local axis the direction is closest to.
func NormalToLocalAxis(orientation geom.Rotation, worldNormal geom.Vec) geom.Vec {
	return orientation.ApplyInverse(worldNormal)
}
