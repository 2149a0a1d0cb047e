package sketch

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// ValidationSeverity indicates whether a finding blocks synthesis or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks synthesis
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	PrimitiveID PrimitiveID        // empty for plane-level findings
	Message     string             // human-readable description
	Severity    ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.PrimitiveID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] primitive %s: %s", e.Severity, short(string(e.PrimitiveID)), e.Message)
}

// orthoTolerance bounds the basis checks in Validate.
const orthoTolerance = 1e-9

// Validate checks the plane frame and every primitive's dimensions. It is
// read-only. An empty slice means the plane is valid.
func (p *Plane) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, p.validateFrame()...)
	for _, prim := range p.Primitives2D() {
		errs = append(errs, validateShape(prim)...)
	}
	for _, prim := range p.Solids3D() {
		errs = append(errs, validateShape(prim)...)
	}
	return errs
}

// ValidatePrimitive checks one primitive's dimensions. Unknown ids yield
// nil.
func (p *Plane) ValidatePrimitive(id PrimitiveID) []ValidationError {
	prim := p.prims[id]
	if prim == nil {
		return nil
	}
	return validateShape(prim)
}

// HasErrors reports whether any finding is blocking.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (p *Plane) validateFrame() []ValidationError {
	var errs []ValidationError
	if !geom.IsFinite(p.Origin) {
		errs = append(errs, ValidationError{Message: "plane origin is not finite", Severity: SeverityError})
	}
	axes := []struct {
		name string
		v    geom.Vec
	}{{"u", p.U}, {"v", p.V}, {"normal", p.Normal}}
	for _, a := range axes {
		if math.Abs(a.v.Length()-1) > orthoTolerance {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("plane %s axis has length %.6f, must be 1", a.name, a.v.Length()),
				Severity: SeverityError,
			})
		}
	}
	if math.Abs(p.U.Dot(p.V)) > orthoTolerance ||
		math.Abs(p.U.Dot(p.Normal)) > orthoTolerance ||
		math.Abs(p.V.Dot(p.Normal)) > orthoTolerance {
		errs = append(errs, ValidationError{Message: "plane axes are not mutually orthogonal", Severity: SeverityError})
	}
	return errs
}

// validateShape checks that every dimension is positive.
func validateShape(prim *Primitive) []ValidationError {
	var errs []ValidationError
	bad := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			PrimitiveID: prim.ID,
			Message:     fmt.Sprintf(format, args...),
			Severity:    SeverityError,
		})
	}

	switch s := prim.Shape.(type) {
	case Rectangle:
		if s.Width <= 0 {
			bad("rectangle width is %.4f, must be positive", s.Width)
		}
		if s.Height <= 0 {
			bad("rectangle height is %.4f, must be positive", s.Height)
		}
	case Circle:
		if s.Radius <= 0 {
			bad("circle radius is %.4f, must be positive", s.Radius)
		}
	case nil:
		bad("primitive has no shape")
	default:
		errs = append(errs, ValidationError{
			PrimitiveID: prim.ID,
			Message:     fmt.Sprintf("unsupported shape %T", prim.Shape),
			Severity:    SeverityWarning,
		})
	}
	return errs
}

// short truncates an identifier for messages.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
