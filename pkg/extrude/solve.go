package extrude

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Base is the state an extrusion session starts from. Solve derives every
// sample from it, so repeating a distance always yields the same result.
type Base struct {
	Native      geom.Vec // unscaled local extents
	Scale       geom.Vec // per-axis scale at Begin
	Center      geom.Vec // world position at Begin
	Orientation geom.Rotation

	Axis      geom.Axis // dominant local axis of the picked normal
	Direction float64   // +1 or -1, sign of that component

	ThicknessAxis geom.Axis
	// Flat marks a solid never committed along its thickness axis. For
	// thickness-axis sessions on a flat solid the growth starts from the
	// plane-side face with zero length.
	Flat bool
	// HeightSign is the sign of the committed height of a non-flat solid.
	// Zero reads as positive.
	HeightSign float64
	// Floor is the smallest extent the axis may shrink to.
	Floor float64

	PlaneNormal geom.Vec
}

// Result is one solved sample.
type Result struct {
	Position geom.Vec
	Axis     geom.Axis
	Scale    float64 // new scale factor along Axis
	Extent   float64 // new extent along Axis

	// Height is the primitive's new signed height. It is only meaningful
	// when HeightChanged is set.
	Height        float64
	HeightChanged bool
}

// growth returns the world direction the solved length runs in: the
// picked local axis, signed toward the picked face.
func (b Base) growth() geom.Vec {
	return b.Orientation.Axis(b.Axis).MulScalar(b.Direction)
}

// Extent0 is the extent along the session axis at Begin.
func (b Base) Extent0() float64 {
	return geom.Component(b.Native, b.Axis) * geom.Component(b.Scale, b.Axis)
}

// fromPlane reports whether the session grows out of a flat solid along its
// thickness.
func (b Base) fromPlane() bool {
	return b.Flat && b.Axis == b.ThicknessAxis
}

// Anchor returns the world point that stays fixed for the whole session:
// the plane-side face for a flat solid grown along its thickness, the face
// opposite the picked one otherwise.
func (b Base) Anchor() geom.Vec {
	if b.fromPlane() {
		t := b.Orientation.Axis(b.ThicknessAxis)
		return b.Center.Sub(t.MulScalar(b.Extent0() / 2))
	}
	return b.Center.Sub(b.growth().MulScalar(b.Extent0() / 2))
}

// Length0 is the growth length at distance zero.
func (b Base) Length0() float64 {
	if b.fromPlane() {
		return 0
	}
	return b.Extent0()
}

// heightSign maps the solved length to a signed height. A flat solid takes
// the side of the plane it grows toward; an extruded one keeps the sign of
// its committed height, so either face adds to the magnitude.
func (b Base) heightSign() float64 {
	if b.Flat {
		return geom.Sign(b.growth().Dot(b.PlaneNormal))
	}
	return geom.Sign(b.HeightSign)
}

// Solve computes the solid's placement for a drag distance d. The length
// from the anchor is L = L0 + d, pushed out to ±Floor when it would get
// thinner; the body spans anchor to anchor + growth·L.
//
// Thickness-axis sessions set the height to ±L, which is baseHeight + d
// for a solid that already has one. Side sessions keep the height, except
// on a flat solid, which takes its synthesized thickness.
func Solve(b Base, d float64) Result {
	l := b.Length0() + d
	if math.Abs(l) < b.Floor {
		l = b.Floor * geom.Sign(l)
	}
	extent := math.Abs(l)

	native := geom.Component(b.Native, b.Axis)
	scale := geom.Component(b.Scale, b.Axis)
	if native > 0 {
		scale = extent / native
	}

	r := Result{
		Position: b.Anchor().Add(b.growth().MulScalar(l / 2)),
		Axis:     b.Axis,
		Scale:    scale,
		Extent:   extent,
	}
	switch {
	case b.Axis == b.ThicknessAxis:
		r.Height = b.heightSign() * l
		r.HeightChanged = true
	case b.Flat:
		t := b.Orientation.Axis(b.ThicknessAxis)
		r.Height = b.Floor * geom.Sign(t.Dot(b.PlaneNormal))
		r.HeightChanged = true
	}
	return r
}
