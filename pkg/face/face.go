// Package face turns a picked face of a solid into an outward world-space
// unit normal.
//
// Boxes use a fixed table of local face normals rotated into world space.
// Cylinders classify the pick point as a cap or the curved side. When no
// usable face information exists the owning sketch plane's normal is used,
// and +Z when the plane is unknown too.
package face

import (
	"log/slog"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/sketch"
	"github.com/chazu/kerf/pkg/solid"
)

// DefaultCapRadiusRatio splits cylinder picks: a radial distance below
// ratio × radius is a cap.
const DefaultCapRadiusRatio = 0.8

// Source tells where a resolved normal came from.
type Source int

const (
	SourceFace   Source = iota // face table or cylinder classification
	SourcePlane                // owning plane normal
	SourceGlobal               // world +Z
)

func (s Source) String() string {
	switch s {
	case SourceFace:
		return "face"
	case SourcePlane:
		return "plane"
	default:
		return "global"
	}
}

// Query is what the UI knows about a pick.
type Query struct {
	Solid    solid.Handle
	Face     solid.FaceID
	Point    geom.Vec // world space, valid when HasPoint
	HasPoint bool
}

// FromHit builds a Query from a scene pick.
func FromHit(h scene.Hit) Query {
	return Query{Solid: h.Solid, Face: h.Face, Point: h.Point, HasPoint: true}
}

// Resolution is a resolved outward normal.
type Resolution struct {
	Normal geom.Vec // world space, unit length
	Face   solid.FaceID
	Source Source
}

// PlaneSource looks planes up by id.
type PlaneSource interface {
	Plane(id sketch.PlaneID) *sketch.Plane
}

// Resolver resolves face normals against a scene and its metadata table.
type Resolver struct {
	scene    scene.Scene
	table    *solid.Table
	planes   PlaneSource
	capRatio float64
	log      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCapRadiusRatio overrides DefaultCapRadiusRatio.
func WithCapRadiusRatio(r float64) Option {
	return func(res *Resolver) { res.capRatio = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) { res.log = l }
}

// New returns a Resolver. planes may be nil.
func New(sc scene.Scene, table *solid.Table, planes PlaneSource, opts ...Option) *Resolver {
	r := &Resolver{
		scene:    sc,
		table:    table,
		planes:   planes,
		capRatio: DefaultCapRadiusRatio,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the outward world normal for q. It never fails; missing
// information degrades to the plane or global fallback.
func (r *Resolver) Resolve(q Query) Resolution {
	if r.scene.Exists(q.Solid) {
		switch r.scene.Kind(q.Solid) {
		case solid.KindBox:
			if res, ok := r.box(q); ok {
				return res
			}
		case solid.KindCylinder:
			if res, ok := r.cylinder(q); ok {
				return res
			}
		}
	}
	return r.fallback(q)
}

func (r *Resolver) box(q Query) (Resolution, bool) {
	orient := r.scene.WorldOrientation(q.Solid)
	f := q.Face
	local, ok := solid.BoxFaceNormal(f)
	if !ok {
		if !q.HasPoint {
			return Resolution{}, false
		}
		// Classify by the dominant component of the point in box units.
		size := geom.Vec{
			X: scene.Extent(r.scene, q.Solid, geom.AxisX),
			Y: scene.Extent(r.scene, q.Solid, geom.AxisY),
			Z: scene.Extent(r.scene, q.Solid, geom.AxisZ),
		}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return Resolution{}, false
		}
		p := orient.ApplyInverse(q.Point.Sub(r.scene.WorldPosition(q.Solid)))
		axis, sign := geom.DominantAxis(geom.Vec{X: p.X / size.X, Y: p.Y / size.Y, Z: p.Z / size.Z})
		f = solid.BoxFace(axis, sign)
		local, _ = solid.BoxFaceNormal(f)
	}
	n := geom.SafeNormalize(orient.Apply(local), local)
	return Resolution{Normal: n, Face: f, Source: SourceFace}, true
}

func (r *Resolver) cylinder(q Query) (Resolution, bool) {
	axisID := solid.KindCylinder.NativeThicknessAxis()
	if md := r.table.Get(q.Solid); md != nil {
		axisID = md.ThicknessAxis
	}
	orient := r.scene.WorldOrientation(q.Solid)
	axis := geom.SafeNormalize(orient.Axis(axisID), geom.UnitY)

	if !q.HasPoint {
		switch q.Face {
		case solid.FaceCapTop:
			return Resolution{Normal: axis, Face: q.Face, Source: SourceFace}, true
		case solid.FaceCapBottom:
			return Resolution{Normal: axis.MulScalar(-1), Face: q.Face, Source: SourceFace}, true
		}
		return Resolution{}, false
	}

	d := q.Point.Sub(r.scene.WorldPosition(q.Solid))
	height := d.Dot(axis)
	radial := d.Sub(axis.MulScalar(height))
	radius := r.radius(q.Solid, axisID)

	if radial.Length() < r.capRatio*radius {
		if geom.Sign(height) > 0 {
			return Resolution{Normal: axis, Face: solid.FaceCapTop, Source: SourceFace}, true
		}
		return Resolution{Normal: axis.MulScalar(-1), Face: solid.FaceCapBottom, Source: SourceFace}, true
	}
	return Resolution{Normal: geom.SafeNormalize(radial, axis), Face: solid.FaceSide, Source: SourceFace}, true
}

// radius is half the larger cross-section extent perpendicular to the
// cylinder axis.
func (r *Resolver) radius(h solid.Handle, axis geom.Axis) float64 {
	var best float64
	for _, a := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		if a == axis {
			continue
		}
		if e := scene.Extent(r.scene, h, a) / 2; e > best {
			best = e
		}
	}
	return best
}

func (r *Resolver) fallback(q Query) Resolution {
	if md := r.table.Get(q.Solid); md != nil && r.planes != nil {
		if p := r.planes.Plane(sketch.PlaneID(md.PlaneID)); p != nil {
			r.log.Debug("face normal from plane", "solid", q.Solid, "face", q.Face, "plane", p.ID)
			return Resolution{Normal: p.Normal, Face: q.Face, Source: SourcePlane}
		}
	}
	r.log.Debug("face normal defaulted", "solid", q.Solid, "face", q.Face)
	return Resolution{Normal: geom.UnitZ, Face: q.Face, Source: SourceGlobal}
}
