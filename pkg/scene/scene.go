// Package scene defines the narrow contract the sketch core needs from a
// rendering scene graph, and ships Memory, an in-process scene that keeps
// transforms and answers pick queries by ray casting. Real renderers
// implement Scene on top of their own node types.
package scene

import (
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/solid"
)

// Hit is the result of a pick query.
type Hit struct {
	Solid    solid.Handle
	Face     solid.FaceID
	Point    geom.Vec // world-space intersection
	Distance float64  // along the pick ray
}

// Scene is the scene-graph surface consumed by the synthesizer, the face
// resolver and the extrusion controller. Solids are created thin and
// centered on their local origin; scale factors start at 1.
type Scene interface {
	// Geometry factories.
	CreateThinBox(width, height, thickness float64) solid.Handle
	CreateThinCylinder(diameter, thickness float64) solid.Handle

	// Transform mutators.
	SetWorldPosition(h solid.Handle, p geom.Vec)
	SetLocalOrientation(h solid.Handle, r geom.Rotation)
	SetAxisScale(h solid.Handle, axis geom.Axis, factor float64)

	// PickFace casts a ray through a screen point and reports the nearest
	// face hit, if any.
	PickFace(screenX, screenY float64) (Hit, bool)

	// Read-back.
	WorldOrientation(h solid.Handle) geom.Rotation
	WorldPosition(h solid.Handle) geom.Vec
	AxisScale(h solid.Handle, axis geom.Axis) float64
	// NativeSize is the unscaled extent along each local axis.
	NativeSize(h solid.Handle) geom.Vec
	Kind(h solid.Handle) solid.Kind
	Exists(h solid.Handle) bool
	// Handles lists every live solid in creation order.
	Handles() []solid.Handle
}

// Extent returns the current scaled extent of h along a local axis.
func Extent(s Scene, h solid.Handle, axis geom.Axis) float64 {
	return geom.Component(s.NativeSize(h), axis) * s.AxisScale(h, axis)
}

// Transform is a snapshot of a solid's mutable state.
type Transform struct {
	Position    geom.Vec
	Orientation geom.Rotation
	Scale       geom.Vec
}

// Capture reads the current transform of h.
func Capture(s Scene, h solid.Handle) Transform {
	return Transform{
		Position:    s.WorldPosition(h),
		Orientation: s.WorldOrientation(h),
		Scale: geom.Vec{
			X: s.AxisScale(h, geom.AxisX),
			Y: s.AxisScale(h, geom.AxisY),
			Z: s.AxisScale(h, geom.AxisZ),
		},
	}
}

// Restore writes a captured transform back.
func Restore(s Scene, h solid.Handle, t Transform) {
	s.SetLocalOrientation(h, t.Orientation)
	s.SetAxisScale(h, geom.AxisX, t.Scale.X)
	s.SetAxisScale(h, geom.AxisY, t.Scale.Y)
	s.SetAxisScale(h, geom.AxisZ, t.Scale.Z)
	s.SetWorldPosition(h, t.Position)
}
