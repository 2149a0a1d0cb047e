// Package sketch defines construction planes and the flat primitives drawn
// on them. A Plane owns an orthonormal (U, V, Normal) frame anchored at
// Origin and tracks which of its primitives are still flat and which have
// been extruded.
package sketch

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// HorizontalThreshold is the |dot(normal, up)| above which the world up
// vector is considered too close to the normal to build a basis from.
const HorizontalThreshold = 0.9

// PlaneID identifies a Plane.
type PlaneID string

// DefaultPlane names one of the axis-aligned construction planes.
type DefaultPlane int

const (
	PlaneXY DefaultPlane = iota // normal +Z
	PlaneXZ                     // normal +Y
	PlaneYZ                     // normal +X
)

func (d DefaultPlane) String() string {
	switch d {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	default:
		return fmt.Sprintf("DefaultPlane(%d)", int(d))
	}
}

// Normal returns the outward direction of the default plane.
func (d DefaultPlane) Normal() geom.Vec {
	switch d {
	case PlaneXZ:
		return geom.UnitY
	case PlaneYZ:
		return geom.UnitX
	default:
		return geom.UnitZ
	}
}

// Plane is one construction plane and the primitives sketched on it.
type Plane struct {
	ID     PlaneID
	Origin geom.Vec
	Normal geom.Vec
	U, V   geom.Vec

	prims  map[PrimitiveID]*Primitive
	flat   []PrimitiveID // primitives2D, insertion order
	solids []PrimitiveID // solids3D, order of first extrusion
}

// NewPlane builds a plane through origin facing normal. The in-plane axes
// are derived from the world up vector, or from world right when the plane
// is nearly horizontal, so the basis is well conditioned for any normal.
func NewPlane(origin, normal geom.Vec) *Plane {
	return newPlane(origin, normal, HorizontalThreshold)
}

// NewPlaneWithThreshold is NewPlane with a configurable near-parallel cutoff.
func NewPlaneWithThreshold(origin, normal geom.Vec, threshold float64) *Plane {
	return newPlane(origin, normal, threshold)
}

// NewDefaultPlane returns the axis-aligned plane d through the world origin.
func NewDefaultPlane(d DefaultPlane) *Plane {
	return NewPlane(geom.Vec{}, d.Normal())
}

func newPlane(origin, normal geom.Vec, threshold float64) *Plane {
	n, u, v := Basis(normal, threshold)
	return &Plane{
		ID:     PlaneID(uuid.NewString()),
		Origin: origin,
		Normal: n,
		U:      u,
		V:      v,
		prims:  make(map[PrimitiveID]*Primitive),
	}
}

// Basis returns the unit normal and the in-plane axes (u, v) for a candidate
// normal, with u = cross(ref, n) and v = cross(n, u). A zero normal is
// treated as +Z.
func Basis(normal geom.Vec, threshold float64) (n, u, v geom.Vec) {
	n = geom.SafeNormalize(normal, geom.UnitZ)
	ref := geom.UnitY
	if math.Abs(n.Dot(ref)) > threshold {
		ref = geom.UnitX
	}
	u = geom.SafeNormalize(ref.Cross(n), geom.UnitX)
	v = geom.SafeNormalize(n.Cross(u), geom.UnitY)
	return n, u, v
}

// Frame returns the plane's basis as a rotation whose local X, Y and Z map
// onto U, V and Normal.
func (p *Plane) Frame() geom.Rotation {
	return geom.FromBasis(p.U, p.V, p.Normal)
}

// ---------------------------------------------------------------------------
// Primitive membership
// ---------------------------------------------------------------------------

// AddRectangle sketches a rectangle with its minimum corner at (u, v).
func (p *Plane) AddRectangle(u, v, width, height float64) *Primitive {
	return p.add(Rectangle{Corner: Point2{U: u, V: v}, Width: width, Height: height})
}

// AddCircle sketches a circle centered at (u, v).
func (p *Plane) AddCircle(u, v, radius float64) *Primitive {
	return p.add(Circle{Center: Point2{U: u, V: v}, Radius: radius})
}

// AddShape sketches an arbitrary shape variant.
func (p *Plane) AddShape(s Shape) *Primitive {
	return p.add(s)
}

func (p *Plane) add(s Shape) *Primitive {
	prim := &Primitive{
		ID:      PrimitiveID(uuid.NewString()),
		PlaneID: p.ID,
		Shape:   s,
	}
	p.prims[prim.ID] = prim
	p.flat = append(p.flat, prim.ID)
	return prim
}

// Primitive returns the primitive with the given id, or nil.
func (p *Plane) Primitive(id PrimitiveID) *Primitive {
	return p.prims[id]
}

// Contains reports whether id belongs to this plane.
func (p *Plane) Contains(id PrimitiveID) bool {
	_, ok := p.prims[id]
	return ok
}

// IsExtruded reports whether id has moved to the solids set.
func (p *Plane) IsExtruded(id PrimitiveID) bool {
	return lo.Contains(p.solids, id)
}

// MarkExtruded moves a primitive from the flat set to the solids set. It is
// a no-op for unknown ids and for primitives already extruded, and reports
// whether a move happened.
func (p *Plane) MarkExtruded(id PrimitiveID) bool {
	if !p.Contains(id) || p.IsExtruded(id) {
		return false
	}
	p.flat = lo.Without(p.flat, id)
	p.solids = append(p.solids, id)
	return true
}

// Primitives2D returns the primitives that have not been extruded yet, in
// sketch order. The slice is a copy.
func (p *Plane) Primitives2D() []*Primitive {
	return p.lookup(p.flat)
}

// Solids3D returns the primitives extruded at least once, in the order of
// their first commit. The slice is a copy.
func (p *Plane) Solids3D() []*Primitive {
	return p.lookup(p.solids)
}

// Len returns the total number of primitives on the plane.
func (p *Plane) Len() int {
	return len(p.prims)
}

func (p *Plane) lookup(ids []PrimitiveID) []*Primitive {
	return lo.Map(ids, func(id PrimitiveID, _ int) *Primitive {
		return p.prims[id]
	})
}
