// Package extrude drives interactive face extrusion. A session starts from
// a picked face, maps the face normal to one local axis of the solid, and
// turns each signed drag distance into a scale along that axis plus a
// recentering that keeps the anchor face fixed.
package extrude

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/kerf/pkg/face"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/sketch"
	"github.com/chazu/kerf/pkg/solid"
)

var (
	// ErrUnknownSolid is returned by Begin for handles without metadata or
	// without a live scene object.
	ErrUnknownSolid = errors.New("extrude: unknown solid")
	// ErrDegenerate is returned by Begin when the chosen axis has no extent.
	ErrDegenerate = errors.New("extrude: degenerate solid")
)

// State is the controller lifecycle.
type State int

const (
	Idle State = iota
	Active
	Previewing
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Previewing:
		return "previewing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Live reports whether a session is open.
func (s State) Live() bool {
	return s == Active || s == Previewing
}

// Event is emitted once per Update.
type Event struct {
	Solid           solid.Handle
	Distance        float64
	IsPreview       bool
	ResultingHeight float64
	Axis            geom.Axis
	Extent          float64
}

// Listener observes extrusion updates.
type Listener interface {
	OnExtrusion(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnExtrusion calls f(e).
func (f ListenerFunc) OnExtrusion(e Event) { f(e) }

// Session is one open extrusion.
type Session struct {
	Solid     solid.Handle
	Plane     *sketch.Plane
	Primitive *sketch.Primitive
	Face      solid.FaceID
	Normal    geom.Vec // resolved world normal of the picked face

	Axis       geom.Axis
	Direction  float64
	BaseHeight float64

	meta     *solid.Metadata
	base     Base
	snapshot scene.Transform

	last      float64
	hasSample bool
}

// Base returns the solve input captured at Begin.
func (s *Session) Base() Base { return s.base }

// LastDistance returns the most recent sample and whether one exists.
func (s *Session) LastDistance() (float64, bool) { return s.last, s.hasSample }

// Controller owns at most one session. It holds non-owning references to
// the scene, the metadata table and the planes; it never disposes of
// solids. A Controller is not safe for concurrent use.
type Controller struct {
	scene    scene.Scene
	table    *solid.Table
	planes   face.PlaneSource
	resolver *face.Resolver
	listener Listener
	log      *slog.Logger

	state State
	sess  *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithListener registers the update observer.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController returns an idle controller.
func NewController(sc scene.Scene, table *solid.Table, planes face.PlaneSource, resolver *face.Resolver, opts ...Option) *Controller {
	c := &Controller{
		scene:    sc,
		table:    table,
		planes:   planes,
		resolver: resolver,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Session returns the open session, or nil.
func (c *Controller) Session() *Session { return c.sess }

// SetListener replaces the update observer. nil disables events.
func (c *Controller) SetListener(l Listener) { c.listener = l }

// Begin opens a session on the picked face. An Active session is cancelled
// first; a Previewing one is committed at its last sample.
func (c *Controller) Begin(q face.Query) (*Session, error) {
	switch c.state {
	case Active:
		c.Cancel()
	case Previewing:
		c.Update(c.sess.last, true)
	}

	md := c.table.Get(q.Solid)
	if md == nil || !c.scene.Exists(q.Solid) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolid, q.Solid)
	}

	var (
		plane *sketch.Plane
		prim  *sketch.Primitive
	)
	if c.planes != nil {
		plane = c.planes.Plane(sketch.PlaneID(md.PlaneID))
	}
	if plane != nil {
		prim = plane.Primitive(sketch.PrimitiveID(md.PrimitiveID))
	}

	res := c.resolver.Resolve(q)
	orient := c.scene.WorldOrientation(q.Solid)
	local := sketch.NormalToLocalAxis(orient, res.Normal)
	axis, dir := geom.DominantAxis(local)

	native := c.scene.NativeSize(q.Solid)
	if geom.Component(native, axis) <= 0 {
		return nil, fmt.Errorf("%w: %s has no extent along %s", ErrDegenerate, q.Solid, axis)
	}

	snap := scene.Capture(c.scene, q.Solid)
	var height float64
	if prim != nil {
		height = prim.ExtrusionHeight
	}

	b := Base{
		Native:        native,
		Scale:         snap.Scale,
		Center:        snap.Position,
		Orientation:   snap.Orientation,
		Axis:          axis,
		Direction:     dir,
		ThicknessAxis: md.ThicknessAxis,
		Flat:          !md.Thickened,
		HeightSign:    geom.Sign(height),
		Floor:         md.SynthThickness,
		PlaneNormal:   res.Normal,
	}
	if plane != nil {
		b.PlaneNormal = plane.Normal
	}

	md.ExtrusionNormal = res.Normal
	md.HasNormal = true
	md.OriginalCenter = snap.Position

	c.sess = &Session{
		Solid:      q.Solid,
		meta:       md,
		Plane:      plane,
		Primitive:  prim,
		Face:       res.Face,
		Normal:     res.Normal,
		Axis:       axis,
		Direction:  dir,
		BaseHeight: height,
		base:       b,
		snapshot:   snap,
	}
	c.state = Active
	c.log.Debug("extrusion begin",
		"solid", q.Solid, "face", res.Face, "axis", axis, "direction", dir, "height", height, "source", res.Source)
	return c.sess, nil
}

// Update applies drag distance d. A final update commits the session. It
// returns false, and does nothing, when no session is open.
func (c *Controller) Update(d float64, isFinal bool) bool {
	if !c.state.Live() {
		c.log.Debug("extrusion update ignored", "state", c.state, "distance", d)
		return false
	}
	s := c.sess
	r := Solve(s.base, d)
	c.scene.SetAxisScale(s.Solid, r.Axis, r.Scale)
	c.scene.SetWorldPosition(s.Solid, r.Position)

	height := s.BaseHeight
	if r.HeightChanged {
		height = r.Height
	}
	s.last, s.hasSample = d, true

	if isFinal {
		c.commit(s, height)
	} else {
		c.state = Previewing
	}

	if c.listener != nil {
		c.listener.OnExtrusion(Event{
			Solid:           s.Solid,
			Distance:        d,
			IsPreview:       !isFinal,
			ResultingHeight: height,
			Axis:            r.Axis,
			Extent:          r.Extent,
		})
	}
	return true
}

func (c *Controller) commit(s *Session, height float64) {
	if s.Axis == s.base.ThicknessAxis {
		s.meta.Thickened = true
	}
	if s.Primitive != nil {
		s.Primitive.ExtrusionHeight = height
		if s.Plane != nil && s.Plane.MarkExtruded(s.Primitive.ID) {
			c.log.Debug("primitive migrated to solids", "plane", s.Plane.ID, "primitive", s.Primitive.ID)
		}
	}
	c.state = Committed
	c.sess = nil
	c.log.Debug("extrusion committed", "solid", s.Solid, "distance", s.last, "height", height)
}

// Cancel restores the solid to its state at Begin and ends the session. It
// returns false when no session is open.
func (c *Controller) Cancel() bool {
	if !c.state.Live() {
		c.log.Debug("extrusion cancel ignored", "state", c.state)
		return false
	}
	s := c.sess
	scene.Restore(c.scene, s.Solid, s.snapshot)
	c.state = Cancelled
	c.sess = nil
	c.log.Debug("extrusion cancelled", "solid", s.Solid)
	return true
}
