// Package solid holds the identifiers and the metadata side table for
// synthesized solids. The scene owns the solids themselves; this package
// only records what the sketch core knows about each one, keyed by handle.
package solid

import (
	"fmt"
	"sort"

	"github.com/chazu/kerf/pkg/geom"
)

// Handle is an opaque reference to a solid living in the scene. The zero
// Handle refers to nothing.
type Handle uint64

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool { return h == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("solid#%d", uint64(h))
}

// Kind distinguishes the synthesized body shapes.
type Kind int

const (
	KindUnknown Kind = iota
	KindBox
	KindCylinder
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// NativeThicknessAxis returns the local axis a freshly created body of this
// kind is thin along. Boxes are thin along Z, cylinders along Y (their
// height axis).
func (k Kind) NativeThicknessAxis() geom.Axis {
	if k == KindCylinder {
		return geom.AxisY
	}
	return geom.AxisZ
}

// Metadata is what the sketch core tracks per solid.
type Metadata struct {
	Handle      Handle
	Kind        Kind
	PlaneID     string // owning sketch plane
	PrimitiveID string // originating primitive

	// ThicknessAxis is the local axis aligned with the plane normal at
	// synthesis; SynthThickness is the body's extent along it then.
	ThicknessAxis  geom.Axis
	SynthThickness float64
	// Thickened is set once a session along ThicknessAxis has committed.
	// Until then thickness sessions grow from the plane-side face.
	Thickened bool

	// ExtrusionNormal is the world unit normal of the most recently picked
	// face. HasNormal is false until a face has been picked.
	ExtrusionNormal geom.Vec
	HasNormal       bool

	// OriginalCenter is the world position at the start of the most recent
	// extrusion session.
	OriginalCenter geom.Vec
}

// Table maps handles to metadata. It is not safe for concurrent use.
type Table struct {
	rows map[Handle]*Metadata
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[Handle]*Metadata)}
}

// Put inserts or replaces the row for m.Handle.
func (t *Table) Put(m Metadata) {
	row := m
	t.rows[m.Handle] = &row
}

// Get returns the row for h, or nil.
func (t *Table) Get(h Handle) *Metadata {
	return t.rows[h]
}

// Delete forgets h. Scene disposal is the caller's business.
func (t *Table) Delete(h Handle) {
	delete(t.rows, h)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Handles returns every known handle in ascending order.
func (t *Table) Handles() []Handle {
	hs := make([]Handle, 0, len(t.rows))
	for h := range t.rows {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// ByPrimitive returns the row whose PrimitiveID matches, or nil.
func (t *Table) ByPrimitive(primitiveID string) *Metadata {
	for _, h := range t.Handles() {
		if m := t.rows[h]; m.PrimitiveID == primitiveID {
			return m
		}
	}
	return nil
}
