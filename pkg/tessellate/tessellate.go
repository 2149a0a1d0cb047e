// Package tessellate turns the solids of a scene into triangle meshes
// using a geometry kernel. One mesh is produced per solid.
package tessellate

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/solid"
)

// DefaultSegments is the cylinder resolution for polygonal kernels.
const DefaultSegments = 32

// Tessellate meshes every solid of sc in handle order. The tessellator is
// read-only and never mutates the scene.
func Tessellate(sc scene.Scene, k kernel.Kernel, segments int) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}
	var meshes []*kernel.Mesh
	for _, h := range sc.Handles() {
		m, err := Solid(sc, k, h, segments)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Solid meshes one solid at its current world transform.
func Solid(sc scene.Scene, k kernel.Kernel, h solid.Handle, segments int) (*kernel.Mesh, error) {
	if !sc.Exists(h) {
		return nil, fmt.Errorf("tessellate: unknown solid %s", h)
	}
	if segments < 3 {
		segments = DefaultSegments
	}

	ext := geom.Vec{
		X: scene.Extent(sc, h, geom.AxisX),
		Y: scene.Extent(sc, h, geom.AxisY),
		Z: scene.Extent(sc, h, geom.AxisZ),
	}
	if ext.X <= 0 || ext.Y <= 0 || ext.Z <= 0 {
		return nil, fmt.Errorf("tessellate: solid %s has degenerate extents %v", h, ext)
	}

	var body kernel.Solid
	kind := sc.Kind(h)
	switch kind {
	case solid.KindBox:
		body = k.Box(ext.X, ext.Y, ext.Z)
	case solid.KindCylinder:
		// Kernel cylinders run along Z. Stretch the cross-section for
		// unequal X and Z extents, then tip the axis onto local Y.
		body = k.Cylinder(ext.Y, ext.X/2, segments)
		if r := ext.Z / ext.X; r != 1 {
			body = k.Scale(body, 1, r, 1)
		}
		body = k.Rotate(body, -90, 0, 0)
	default:
		return nil, fmt.Errorf("tessellate: solid %s has unsupported kind %s", h, kind)
	}

	// Apply orientation first, then translation.
	rx, ry, rz := sc.WorldOrientation(h).EulerDegrees()
	if rx != 0 || ry != 0 || rz != 0 {
		body = k.Rotate(body, rx, ry, rz)
	}
	p := sc.WorldPosition(h)
	if p.X != 0 || p.Y != 0 || p.Z != 0 {
		body = k.Translate(body, p.X, p.Y, p.Z)
	}

	mesh, err := k.ToMesh(body)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for solid %s: %w", h, err)
	}
	mesh.Solid = uint64(h)
	mesh.Name = fmt.Sprintf("%s %s", kind, h)
	return mesh, nil
}
