// Package synth turns a flat sketch primitive into a thin 3-D solid in the
// scene, oriented so its thickness axis is the sketch plane normal and its
// plane-side face lies on the plane.
package synth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/sketch"
	"github.com/chazu/kerf/pkg/solid"
)

// DefaultThickness is the extent of a freshly synthesized solid along its
// thickness axis.
const DefaultThickness = 0.01

var (
	// ErrUnsupportedShape is returned for shape variants with no solid form.
	ErrUnsupportedShape = errors.New("synth: unsupported shape")
	// ErrZeroThickness is returned when the configured thickness is not
	// positive.
	ErrZeroThickness = errors.New("synth: thickness must be positive")
)

// Synthesizer creates solids in a Scene and records their metadata.
type Synthesizer struct {
	scene     scene.Scene
	table     *solid.Table
	thickness float64
	log       *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithThickness overrides DefaultThickness.
func WithThickness(t float64) Option {
	return func(s *Synthesizer) { s.thickness = t }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Synthesizer) { s.log = l }
}

// New returns a Synthesizer writing into sc and table.
func New(sc scene.Scene, table *solid.Table, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		scene:     sc,
		table:     table,
		thickness: DefaultThickness,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Thickness returns the thickness new solids are created with.
func (s *Synthesizer) Thickness() float64 {
	return s.thickness
}

// Layout is the placement of a synthesized solid, computed without touching
// the scene.
type Layout struct {
	Kind          solid.Kind
	Size          geom.Vec // native extents along local X, Y, Z
	Orientation   geom.Rotation
	Position      geom.Vec
	ThicknessAxis geom.Axis
}

// Plan computes where a solid for shape would go on plane p.
func Plan(p *sketch.Plane, shape sketch.Shape, thickness float64) (Layout, error) {
	if thickness <= 0 {
		return Layout{}, fmt.Errorf("%w: got %g", ErrZeroThickness, thickness)
	}

	var l Layout
	switch sh := shape.(type) {
	case sketch.Rectangle:
		// Local X on U, Y on V, thickness (Z) on the normal.
		l.Kind = solid.KindBox
		l.Size = geom.Vec{X: sh.Width, Y: sh.Height, Z: thickness}
		l.Orientation = geom.FromBasis(p.U, p.V, p.Normal)
	case sketch.Circle:
		// Local X on U, thickness (Y) on the normal, Z completes a
		// right-handed frame.
		l.Kind = solid.KindCylinder
		l.Size = geom.Vec{X: 2 * sh.Radius, Y: thickness, Z: 2 * sh.Radius}
		l.Orientation = geom.FromBasis(p.U, p.Normal, p.V.MulScalar(-1))
	default:
		return Layout{}, fmt.Errorf("%w: %T", ErrUnsupportedShape, shape)
	}
	l.ThicknessAxis = l.Kind.NativeThicknessAxis()

	c := shape.LocalCenter()
	l.Position = sketch.ToWorld(p, c.U, c.V, thickness/2)
	return l, nil
}

// Synthesize creates the solid for prim on plane p, records it in the
// table and stores its handle on prim. A primitive that already owns a live
// solid gets that handle back unchanged.
func (s *Synthesizer) Synthesize(p *sketch.Plane, prim *sketch.Primitive) (solid.Handle, error) {
	if prim == nil {
		return 0, fmt.Errorf("%w: nil primitive", ErrUnsupportedShape)
	}
	if !prim.Solid.IsZero() && s.scene.Exists(prim.Solid) {
		return prim.Solid, nil
	}

	l, err := Plan(p, prim.Shape, s.thickness)
	if err != nil {
		s.log.Warn("synthesize failed",
			"plane", p.ID, "primitive", prim.ID, "shape", fmt.Sprintf("%T", prim.Shape), "err", err)
		return 0, err
	}

	var h solid.Handle
	switch l.Kind {
	case solid.KindBox:
		h = s.scene.CreateThinBox(l.Size.X, l.Size.Y, l.Size.Z)
	case solid.KindCylinder:
		h = s.scene.CreateThinCylinder(l.Size.X, l.Size.Y)
	}
	s.scene.SetLocalOrientation(h, l.Orientation)
	s.scene.SetWorldPosition(h, l.Position)

	s.table.Put(solid.Metadata{
		Handle:         h,
		Kind:           l.Kind,
		PlaneID:        string(p.ID),
		PrimitiveID:    string(prim.ID),
		ThicknessAxis:  l.ThicknessAxis,
		SynthThickness: s.thickness,
		OriginalCenter: l.Position,
	})
	prim.Solid = h

	s.log.Debug("synthesized solid",
		"solid", h, "kind", l.Kind, "plane", p.ID, "primitive", prim.ID, "axis", l.ThicknessAxis)
	return h, nil
}
