// Package studio wires the sketch core into one workspace: construction
// planes, the scene, the solid synthesizer, the face resolver and the
// extrusion controller. Shells (the DSL, the desktop app) drive it.
package studio

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/extrude"
	"github.com/chazu/kerf/pkg/face"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/manifold"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/sketch"
	"github.com/chazu/kerf/pkg/solid"
	"github.com/chazu/kerf/pkg/synth"
	"github.com/chazu/kerf/pkg/tessellate"
)

// ErrSolidBusy is returned when an operation targets the solid of the open
// extrusion session.
var ErrSolidBusy = errors.New("studio: solid is being extruded")

// Workspace is one modelling session. It is not safe for concurrent use.
type Workspace struct {
	Settings config.Settings

	Scene    scene.Scene
	Table    *solid.Table
	Planes   *sketch.Registry
	Synth    *synth.Synthesizer
	Resolver *face.Resolver
	Extruder *extrude.Controller

	log *slog.Logger
}

type options struct {
	scene    scene.Scene
	listener extrude.Listener
	log      *slog.Logger
}

// Option configures a Workspace.
type Option func(*options)

// WithScene replaces the in-memory scene.
func WithScene(sc scene.Scene) Option {
	return func(o *options) { o.scene = sc }
}

// WithListener observes extrusion updates.
func WithListener(l extrude.Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New builds a workspace from settings.
func New(settings config.Settings, opts ...Option) *Workspace {
	o := options{log: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.scene == nil {
		o.scene = scene.NewMemory()
	}

	w := &Workspace{
		Settings: settings,
		Scene:    o.scene,
		Table:    solid.NewTable(),
		Planes:   sketch.NewRegistry(),
		log:      o.log,
	}
	w.Synth = synth.New(w.Scene, w.Table,
		synth.WithThickness(settings.MinThickness),
		synth.WithLogger(o.log))
	w.Resolver = face.New(w.Scene, w.Table, w.Planes,
		face.WithCapRadiusRatio(settings.CapRadiusRatio),
		face.WithLogger(o.log))

	ctlOpts := []extrude.Option{extrude.WithLogger(o.log)}
	if o.listener != nil {
		ctlOpts = append(ctlOpts, extrude.WithListener(o.listener))
	}
	w.Extruder = extrude.NewController(w.Scene, w.Table, w.Planes, w.Resolver, ctlOpts...)
	return w
}

// NewPlane creates and registers a plane through origin facing normal.
func (w *Workspace) NewPlane(origin, normal geom.Vec) *sketch.Plane {
	p := sketch.NewPlaneWithThreshold(origin, normal, w.Settings.HorizontalThreshold)
	w.Planes.Add(p)
	w.log.Debug("plane created", "plane", p.ID, "normal", p.Normal)
	return p
}

// DefaultPlane creates and registers one of the axis-aligned planes.
func (w *Workspace) DefaultPlane(d sketch.DefaultPlane) *sketch.Plane {
	return w.NewPlane(geom.Vec{}, d.Normal())
}

// AddRectangle sketches a rectangle on p and synthesizes its thin solid.
func (w *Workspace) AddRectangle(p *sketch.Plane, u, v, width, height float64) (*sketch.Primitive, error) {
	return w.sketchShape(p, sketch.Rectangle{Corner: sketch.Point2{U: u, V: v}, Width: width, Height: height})
}

// AddCircle sketches a circle on p and synthesizes its thin solid.
func (w *Workspace) AddCircle(p *sketch.Plane, u, v, radius float64) (*sketch.Primitive, error) {
	return w.sketchShape(p, sketch.Circle{Center: sketch.Point2{U: u, V: v}, Radius: radius})
}

func (w *Workspace) sketchShape(p *sketch.Plane, s sketch.Shape) (*sketch.Primitive, error) {
	if w.Planes.Plane(p.ID) == nil {
		w.Planes.Add(p)
	}
	prim := p.AddShape(s)
	for _, e := range p.ValidatePrimitive(prim.ID) {
		if e.Severity == sketch.SeverityError {
			return prim, fmt.Errorf("studio: %s: %w", s, e)
		}
	}
	if _, err := w.Synth.Synthesize(p, prim); err != nil {
		return prim, fmt.Errorf("studio: %w", err)
	}
	return prim, nil
}

// Lookup returns the plane and primitive a solid was synthesized from.
func (w *Workspace) Lookup(h solid.Handle) (*sketch.Plane, *sketch.Primitive) {
	md := w.Table.Get(h)
	if md == nil {
		return nil, nil
	}
	p := w.Planes.Plane(sketch.PlaneID(md.PlaneID))
	if p == nil {
		return nil, nil
	}
	return p, p.Primitive(sketch.PrimitiveID(md.PrimitiveID))
}

// Pick casts a ray through a screen point.
func (w *Workspace) Pick(screenX, screenY float64) (scene.Hit, bool) {
	return w.Scene.PickFace(screenX, screenY)
}

// BeginExtrusion opens a session on a picked face.
func (w *Workspace) BeginExtrusion(q face.Query) (*extrude.Session, error) {
	return w.Extruder.Begin(q)
}

// UpdateExtrusion feeds one drag sample. See extrude.Controller.Update.
func (w *Workspace) UpdateExtrusion(distance float64, isFinal bool) bool {
	return w.Extruder.Update(distance, isFinal)
}

// CancelExtrusion abandons the open session.
func (w *Workspace) CancelExtrusion() bool {
	return w.Extruder.Cancel()
}

// Extrude runs a whole session: begin on face f of h, then one final
// update at distance d.
func (w *Workspace) Extrude(h solid.Handle, f solid.FaceID, d float64) error {
	if _, err := w.Extruder.Begin(face.Query{Solid: h, Face: f}); err != nil {
		return err
	}
	w.Extruder.Update(d, true)
	return nil
}

// RotateSolid turns a solid about its own center around a world axis.
// Later picks re-derive the extrusion axis from the new orientation.
func (w *Workspace) RotateSolid(h solid.Handle, axis geom.Vec, degrees float64) error {
	if !w.Scene.Exists(h) {
		return fmt.Errorf("studio: rotate: %w: %s", extrude.ErrUnknownSolid, h)
	}
	if s := w.Extruder.Session(); s != nil && s.Solid == h {
		return fmt.Errorf("studio: rotate %s: %w", h, ErrSolidBusy)
	}
	if geom.NearlyZero(axis.Length(), geom.Tolerance) {
		return fmt.Errorf("studio: rotate %s: zero axis", h)
	}
	r := geom.AxisAngle(axis, geom.Deg2Rad(degrees))
	w.Scene.SetLocalOrientation(h, r.Mul(w.Scene.WorldOrientation(h)).Orthonormalize())
	w.log.Debug("solid rotated", "solid", h, "axis", axis, "degrees", degrees)
	return nil
}

// Validate checks every plane.
func (w *Workspace) Validate() []sketch.ValidationError {
	var errs []sketch.ValidationError
	for _, p := range w.Planes.Planes() {
		errs = append(errs, p.Validate()...)
	}
	return errs
}

// Meshes tessellates every solid through k.
func (w *Workspace) Meshes(k kernel.Kernel) ([]*kernel.Mesh, error) {
	return tessellate.Tessellate(w.Scene, k, w.Settings.CylinderSegments)
}

// NewKernel returns the kernel backend named by settings.
func NewKernel(s config.Settings) (kernel.Kernel, error) {
	switch s.Kernel {
	case config.KernelManifold:
		return manifold.New()
	case config.KernelSdfx, "":
		return sdfx.NewWithCells(s.MeshCells), nil
	default:
		return nil, fmt.Errorf("studio: unknown kernel %q", s.Kernel)
	}
}
