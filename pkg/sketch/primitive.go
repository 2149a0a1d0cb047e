package sketch

import (
	"fmt"

	"github.com/chazu/kerf/pkg/solid"
)

// PrimitiveID identifies a primitive across its whole lifetime.
type PrimitiveID string

// Point2 is a plane-local coordinate.
type Point2 struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

// Shape is the tagged variant of sketchable geometry. Implementations are
// restricted to this package; consumers switch on the concrete type.
type Shape interface {
	shape() // marker method
	// LocalCenter returns the plane-local center of the shape.
	LocalCenter() Point2
	fmt.Stringer
}

// Rectangle is an axis-aligned rectangle in plane coordinates.
type Rectangle struct {
	Corner Point2  `json:"corner"` // minimum (u, v) corner
	Width  float64 `json:"width"`  // extent along U
	Height float64 `json:"height"` // extent along V
}

func (Rectangle) shape() {}

// LocalCenter returns corner plus half the extents.
func (r Rectangle) LocalCenter() Point2 {
	return Point2{U: r.Corner.U + r.Width/2, V: r.Corner.V + r.Height/2}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("rect %.3gx%.3g at (%.3g, %.3g)", r.Width, r.Height, r.Corner.U, r.Corner.V)
}

// Circle is a circle in plane coordinates.
type Circle struct {
	Center Point2  `json:"center"`
	Radius float64 `json:"radius"`
}

func (Circle) shape() {}

// LocalCenter returns the stored center.
func (c Circle) LocalCenter() Point2 {
	return c.Center
}

func (c Circle) String() string {
	return fmt.Sprintf("circle r=%.3g at (%.3g, %.3g)", c.Radius, c.Center.U, c.Center.V)
}

// Primitive is one sketched shape. It lies on its plane (h = 0) until an
// extrusion commit gives it a non-zero signed ExtrusionHeight.
type Primitive struct {
	ID              PrimitiveID
	PlaneID         PlaneID
	Shape           Shape
	ExtrusionHeight float64      // signed along the plane normal, 0 while flat
	Solid           solid.Handle // zero until synthesized
}

// IsFlat reports whether the primitive has never been given a height.
func (p *Primitive) IsFlat() bool {
	return p.ExtrusionHeight == 0
}
