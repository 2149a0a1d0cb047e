package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/face"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/sketch"
	"github.com/chazu/kerf/pkg/solid"
	"github.com/chazu/kerf/pkg/studio"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Go values carried through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec2 struct {
	pt sketch.Point2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.pt.U, v.pt.V)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec geom.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPlane is returned by `plane` and consumed by `rect` and `circle`.
type sexpPlane struct {
	plane *sketch.Plane
}

func (p *sexpPlane) SexpString(ps *zygo.PrintState) string {
	n := p.plane.Normal
	return fmt.Sprintf("(plane :normal (vec3 %g %g %g))", n.X, n.Y, n.Z)
}
func (p *sexpPlane) Type() *zygo.RegisteredType { return nil }

// sexpPrimitive is a sketched shape together with its plane.
type sexpPrimitive struct {
	plane *sketch.Plane
	prim  *sketch.Primitive
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", p.prim.Shape, p.prim.Solid)
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a parsed mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates keyword pairs from positional arguments. A trailing
// keyword with no value is recorded as SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			res.positional = append(res.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			res.kw[name] = args[i+1]
			i++
		} else {
			res.kw[name] = zygo.SexpNull
		}
	}
	return res
}

// number reads a required numeric keyword.
func (a kwArgs) number(key string) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, fmt.Errorf("missing :%s", key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a number from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toKeywordString accepts a preprocessed keyword (:xy) or a plain string.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", describe(s))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toBool accepts true/false and the keywords :true/:false.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpStr:
		switch strings.TrimPrefix(v.S, kwPrefix) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %s", describe(s))
}

func toVec2(s zygo.Sexp) (sketch.Point2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.pt, nil
	}
	return sketch.Point2{}, fmt.Errorf("expected vec2, got %s", describe(s))
}

func toVec3(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

func toPlane(s zygo.Sexp) (*sketch.Plane, error) {
	if p, ok := s.(*sexpPlane); ok {
		return p.plane, nil
	}
	return nil, fmt.Errorf("expected plane, got %s", describe(s))
}

func toPrimitive(s zygo.Sexp) (*sexpPrimitive, error) {
	if p, ok := s.(*sexpPrimitive); ok {
		return p, nil
	}
	return nil, fmt.Errorf("expected rect or circle, got %s", describe(s))
}

func toDefaultPlane(s zygo.Sexp) (sketch.DefaultPlane, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	for _, d := range []sketch.DefaultPlane{sketch.PlaneXY, sketch.PlaneXZ, sketch.PlaneYZ} {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid default plane %q, expected xy, xz or yz", name)
}

func toFaceID(s zygo.Sexp) (solid.FaceID, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return solid.FaceNone, fmt.Errorf("expected face keyword: %w", err)
	}
	return solid.ParseFaceID(name)
}

// firstPrimitive reads the leading positional rect/circle argument.
func firstPrimitive(pa kwArgs) (*sexpPrimitive, error) {
	if len(pa.positional) == 0 {
		return nil, fmt.Errorf("missing shape argument")
	}
	return toPrimitive(pa.positional[0])
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the kerf sketch builtins. Every form operates
// on w. Source must go through preprocessSource first so that keywords
// arrive as recognizable strings.
func registerBuiltins(env *zygo.Zlisp, w *studio.Workspace) {

	// (vec2 u v)
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2: expected 2 arguments, got %d", len(args))
		}
		var c [2]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec2: argument %d: %w", i+1, err)
			}
			c[i] = f
		}
		return &sexpVec2{pt: sketch.Point2{U: c[0], V: c[1]}}, nil
	})

	// (vec3 x y z)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3: expected 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: argument %d: %w", i+1, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: geom.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (plane :default :xy)
	// (plane :normal (vec3 0 0 1) :origin (vec3 0 0 0))
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["default"]; ok {
			if _, both := pa.kw["normal"]; both {
				return zygo.SexpNull, fmt.Errorf("plane: :default and :normal are exclusive")
			}
			d, err := toDefaultPlane(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: default: %w", err)
			}
			return &sexpPlane{plane: w.DefaultPlane(d)}, nil
		}

		normal := geom.UnitZ
		if v, ok := pa.kw["normal"]; ok {
			n, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
			}
			normal = n
		}
		var origin geom.Vec
		if v, ok := pa.kw["origin"]; ok {
			o, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: origin: %w", err)
			}
			origin = o
		}
		return &sexpPlane{plane: w.NewPlane(origin, normal)}, nil
	})

	// (rect p :corner (vec2 0 0) :width 4 :height 2)
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p, err := planeArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		var corner sketch.Point2
		if v, ok := pa.kw["corner"]; ok {
			if corner, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: corner: %w", err)
			}
		}
		width, err := pa.number("width")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		height, err := pa.number("height")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		prim, err := w.AddRectangle(p, corner.U, corner.V, width, height)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		return &sexpPrimitive{plane: p, prim: prim}, nil
	})

	// (circle p :center (vec2 0 0) :radius 1)
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p, err := planeArg(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		var center sketch.Point2
		if v, ok := pa.kw["center"]; ok {
			if center, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
			}
		}
		radius, err := pa.number("radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		prim, err := w.AddCircle(p, center.U, center.V, radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		return &sexpPrimitive{plane: p, prim: prim}, nil
	})

	// (extrude r :face :pos-z :distance 3)
	// (extrude r :face :pos-z :distance 3 :preview true)
	// (extrude c :face :side :at (vec3 1 0 0) :distance 1)
	//
	// :at is a world pick point; cylinders need it to tell a cap from the
	// side. Without :face the plane normal drives the extrusion. A preview leaves
	// the session open; the next extrude commits it at its last sample.
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sp, err := firstPrimitive(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		if sp.prim.Solid.IsZero() {
			return zygo.SexpNull, fmt.Errorf("extrude: %s has no solid", sp.prim.Shape)
		}
		q := face.Query{Solid: sp.prim.Solid}
		if v, ok := pa.kw["face"]; ok {
			if q.Face, err = toFaceID(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: face: %w", err)
			}
		}
		if v, ok := pa.kw["at"]; ok {
			if q.Point, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: at: %w", err)
			}
			q.HasPoint = true
		}
		d, err := pa.number("distance")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		preview := false
		if v, ok := pa.kw["preview"]; ok {
			if preview, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: preview: %w", err)
			}
		}

		if _, err := w.BeginExtrusion(q); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		w.UpdateExtrusion(d, !preview)
		return sp, nil
	})

	// (rotate r :axis (vec3 0 0 1) :degrees 90)
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sp, err := firstPrimitive(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		v, ok := pa.kw["axis"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate: missing :axis")
		}
		axis, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		deg, err := pa.number("degrees")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		if err := w.RotateSolid(sp.prim.Solid, axis, deg); err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return sp, nil
	})

	// (cancel) abandons an open preview.
	env.AddFunction("cancel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("cancel: expected no arguments, got %d", len(args))
		}
		w.CancelExtrusion()
		return zygo.SexpNull, nil
	})

	// (height r) is the committed signed extrusion height.
	env.AddFunction("height", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sp, err := firstPrimitive(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("height: %w", err)
		}
		return &zygo.SexpFloat{Val: sp.prim.ExtrusionHeight}, nil
	})

	// (sketch p r1 r2 ...) or (sketch p (list r1 r2)) checks that every
	// shape lies on p and returns the plane.
	env.AddFunction("sketch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("sketch: missing plane argument")
		}
		p, err := toPlane(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sketch: %w", err)
		}
		items := args[1:]
		if len(items) == 1 {
			if list, lerr := sexpListToSlice(items[0]); lerr == nil {
				items = list
			}
		}
		for i, item := range items {
			sp, err := toPrimitive(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch: shape %d: %w", i+1, err)
			}
			if sp.plane != p {
				return zygo.SexpNull, fmt.Errorf("sketch: shape %d: %s belongs to another plane", i+1, sp.prim.Shape)
			}
		}
		return args[0], nil
	})
}

// planeArg reads the leading positional plane argument.
func planeArg(pa kwArgs) (*sketch.Plane, error) {
	if len(pa.positional) == 0 {
		return nil, fmt.Errorf("missing plane argument")
	}
	return toPlane(pa.positional[0])
}
