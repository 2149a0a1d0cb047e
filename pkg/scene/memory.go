package scene

import (
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/solid"
)

// Compile-time interface check.
var _ Scene = (*Memory)(nil)

// node is one solid held by Memory.
type node struct {
	kind   solid.Kind
	size   geom.Vec // native extents along local X, Y, Z
	pos    geom.Vec
	orient geom.Rotation
	scale  geom.Vec
}

// Memory is an in-process Scene. It has no parent/child hierarchy, so local
// and world orientation coincide. Memory is not safe for concurrent use.
type Memory struct {
	Camera Camera

	nodes map[solid.Handle]*node
	next  solid.Handle
}

// NewMemory returns an empty scene viewed through DefaultCamera.
func NewMemory() *Memory {
	return &Memory{
		Camera: DefaultCamera(),
		nodes:  make(map[solid.Handle]*node),
	}
}

func (m *Memory) create(kind solid.Kind, size geom.Vec) solid.Handle {
	m.next++
	m.nodes[m.next] = &node{
		kind:   kind,
		size:   size,
		orient: geom.Identity(),
		scale:  geom.Vec{X: 1, Y: 1, Z: 1},
	}
	return m.next
}

// CreateThinBox creates a box of width × height × thickness along local
// X, Y, Z.
func (m *Memory) CreateThinBox(width, height, thickness float64) solid.Handle {
	return m.create(solid.KindBox, geom.Vec{X: width, Y: height, Z: thickness})
}

// CreateThinCylinder creates a cylinder whose height (thickness) runs along
// local Y.
func (m *Memory) CreateThinCylinder(diameter, thickness float64) solid.Handle {
	return m.create(solid.KindCylinder, geom.Vec{X: diameter, Y: thickness, Z: diameter})
}

// Remove disposes of a solid. Removing an unknown handle is a no-op.
func (m *Memory) Remove(h solid.Handle) {
	delete(m.nodes, h)
}

// Handles returns every live handle in creation order.
func (m *Memory) Handles() []solid.Handle {
	hs := make([]solid.Handle, 0, len(m.nodes))
	for h := range m.nodes {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// Exists reports whether h is live.
func (m *Memory) Exists(h solid.Handle) bool {
	_, ok := m.nodes[h]
	return ok
}

// SetWorldPosition moves the solid's center.
func (m *Memory) SetWorldPosition(h solid.Handle, p geom.Vec) {
	if n := m.nodes[h]; n != nil {
		n.pos = p
	}
}

// SetLocalOrientation replaces the solid's orientation.
func (m *Memory) SetLocalOrientation(h solid.Handle, r geom.Rotation) {
	if n := m.nodes[h]; n != nil {
		n.orient = r
	}
}

// SetAxisScale sets the scale factor along one local axis.
func (m *Memory) SetAxisScale(h solid.Handle, axis geom.Axis, factor float64) {
	if n := m.nodes[h]; n != nil {
		n.scale = geom.WithComponent(n.scale, axis, factor)
	}
}

// WorldOrientation returns the solid's orientation, identity when unknown.
func (m *Memory) WorldOrientation(h solid.Handle) geom.Rotation {
	if n := m.nodes[h]; n != nil {
		return n.orient
	}
	return geom.Identity()
}

// WorldPosition returns the solid's center.
func (m *Memory) WorldPosition(h solid.Handle) geom.Vec {
	if n := m.nodes[h]; n != nil {
		return n.pos
	}
	return geom.Vec{}
}

// AxisScale returns the scale factor along a local axis, 1 when unknown.
func (m *Memory) AxisScale(h solid.Handle, axis geom.Axis) float64 {
	if n := m.nodes[h]; n != nil {
		return geom.Component(n.scale, axis)
	}
	return 1
}

// NativeSize returns the unscaled local extents.
func (m *Memory) NativeSize(h solid.Handle) geom.Vec {
	if n := m.nodes[h]; n != nil {
		return n.size
	}
	return geom.Vec{}
}

// Kind returns the body shape of h.
func (m *Memory) Kind(h solid.Handle) solid.Kind {
	if n := m.nodes[h]; n != nil {
		return n.kind
	}
	return solid.KindUnknown
}

// PickFace casts the camera ray through a screen point.
func (m *Memory) PickFace(screenX, screenY float64) (Hit, bool) {
	return m.PickRay(m.Camera.Ray(screenX, screenY))
}

// PickRay intersects every solid with r and returns the nearest hit.
func (m *Memory) PickRay(r Ray) (Hit, bool) {
	var hits []Hit
	for _, h := range m.Handles() {
		if hit, ok := m.intersect(h, m.nodes[h], r); ok {
			hits = append(hits, hit)
		}
	}
	if len(hits) == 0 {
		return Hit{}, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits[0], true
}

// intersect tests r against one solid in the solid's local frame, where the
// body spans [-half, +half] on each axis.
func (m *Memory) intersect(h solid.Handle, n *node, r Ray) (Hit, bool) {
	o := n.orient.ApplyInverse(r.Origin.Sub(n.pos))
	d := n.orient.ApplyInverse(r.Dir)
	half := geom.Vec{
		X: n.size.X * n.scale.X / 2,
		Y: n.size.Y * n.scale.Y / 2,
		Z: n.size.Z * n.scale.Z / 2,
	}

	var (
		t    float64
		face solid.FaceID
		ok   bool
	)
	switch n.kind {
	case solid.KindBox:
		t, face, ok = intersectBox(o, d, half)
	case solid.KindCylinder:
		t, face, ok = intersectCylinder(o, d, half)
	}
	if !ok {
		return Hit{}, false
	}
	return Hit{Solid: h, Face: face, Point: r.At(t), Distance: t}, true
}

// intersectBox is the slab test. The entry face is the slab whose near
// plane was crossed last.
func intersectBox(o, d, half geom.Vec) (float64, solid.FaceID, bool) {
	tNear, tFar := math.Inf(-1), math.Inf(1)
	var entry solid.FaceID
	for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		oa, da, ha := geom.Component(o, axis), geom.Component(d, axis), geom.Component(half, axis)
		if math.Abs(da) < 1e-15 {
			if oa < -ha || oa > ha {
				return 0, solid.FaceNone, false
			}
			continue
		}
		t1, t2 := (-ha-oa)/da, (ha-oa)/da
		// The ray enters through the face it approaches.
		face := solid.BoxFace(axis, -geom.Sign(da))
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear, entry = t1, face
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar || tFar < 0 {
			return 0, solid.FaceNone, false
		}
	}
	if tNear < 0 {
		// Origin inside the box: report the exit instead.
		return 0, solid.FaceNone, false
	}
	return tNear, entry, true
}

// intersectCylinder tests a cylinder along local Y. X and Z half extents
// may differ after scaling, so the test runs in coordinates where the body
// is the unit cylinder.
func intersectCylinder(o, d, half geom.Vec) (float64, solid.FaceID, bool) {
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		return 0, solid.FaceNone, false
	}
	o = geom.Vec{X: o.X / half.X, Y: o.Y / half.Y, Z: o.Z / half.Z}
	d = geom.Vec{X: d.X / half.X, Y: d.Y / half.Y, Z: d.Z / half.Z}

	best := math.Inf(1)
	var face solid.FaceID
	consider := func(t float64, f solid.FaceID) {
		if t >= 0 && t < best {
			best, face = t, f
		}
	}

	// Curved side.
	a := d.X*d.X + d.Z*d.Z
	b := 2 * (o.X*d.X + o.Z*d.Z)
	c := o.X*o.X + o.Z*o.Z - 1
	if a > 1e-15 {
		if disc := b*b - 4*a*c; disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if y := o.Y + t*d.Y; y >= -1 && y <= 1 {
					consider(t, solid.FaceSide)
				}
			}
		}
	}

	// Caps.
	if math.Abs(d.Y) > 1e-15 {
		for _, disk := range []struct {
			y float64
			f solid.FaceID
		}{{1, solid.FaceCapTop}, {-1, solid.FaceCapBottom}} {
			t := (disk.y - o.Y) / d.Y
			x, z := o.X+t*d.X, o.Z+t*d.Z
			if x*x+z*z <= 1 {
				consider(t, disk.f)
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, solid.FaceNone, false
	}
	return best, face, true
}
