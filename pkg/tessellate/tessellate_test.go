package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(40)
}

func checkBounds(t *testing.T, m *kernel.Mesh, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := m.Bounds()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(min[i])-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, want ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(float64(max[i])-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, want ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(scene.NewMemory(), newKernel(), 0)
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("got %d meshes, want 0", len(meshes))
	}

	meshes, err = tessellate.Tessellate(nil, newKernel(), 0)
	if err != nil || meshes != nil {
		t.Fatalf("Tessellate(nil) = %v, %v; want nil, nil", meshes, err)
	}
}

func TestSingleBox(t *testing.T) {
	sc := scene.NewMemory()
	h := sc.CreateThinBox(4, 2, 0.01)
	sc.SetAxisScale(h, geom.AxisZ, 300)
	sc.SetWorldPosition(h, geom.Vec{X: 2, Y: 1, Z: 1.5})

	meshes, err := tessellate.Tessellate(sc, newKernel(), 0)
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	m := meshes[0]
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.Solid != uint64(h) {
		t.Errorf("Solid = %d, want %d", m.Solid, h)
	}
	if m.Name != "box solid#1" {
		t.Errorf("Name = %q, want %q", m.Name, "box solid#1")
	}
	checkBounds(t, m, [3]float64{0, 0, 0}, [3]float64{4, 2, 3}, 0.25)
}

func TestRotatedBox(t *testing.T) {
	sc := scene.NewMemory()
	h := sc.CreateThinBox(4, 1, 1)
	// Local X onto world Y.
	sc.SetLocalOrientation(h, geom.AxisAngle(geom.UnitZ, math.Pi/2))

	m, err := tessellate.Solid(sc, newKernel(), h, 0)
	if err != nil {
		t.Fatalf("Solid() error = %v", err)
	}
	checkBounds(t, m, [3]float64{-0.5, -2, -0.5}, [3]float64{0.5, 2, 0.5}, 0.25)
}

func TestCylinderAlongLocalY(t *testing.T) {
	sc := scene.NewMemory()
	h := sc.CreateThinCylinder(2, 3)
	// Thickness axis (local Y) onto world Z, as on the XY sketch plane.
	sc.SetLocalOrientation(h, geom.FromBasis(geom.UnitX, geom.UnitZ, geom.Vec{Y: -1}))
	sc.SetWorldPosition(h, geom.Vec{Z: 1.5})

	m, err := tessellate.Solid(sc, newKernel(), h, 32)
	if err != nil {
		t.Fatalf("Solid() error = %v", err)
	}
	checkBounds(t, m, [3]float64{-1, -1, 0}, [3]float64{1, 1, 3}, 0.25)
}

func TestStretchedCylinder(t *testing.T) {
	sc := scene.NewMemory()
	h := sc.CreateThinCylinder(2, 2)
	sc.SetAxisScale(h, geom.AxisX, 2)

	m, err := tessellate.Solid(sc, newKernel(), h, 32)
	if err != nil {
		t.Fatalf("Solid() error = %v", err)
	}
	checkBounds(t, m, [3]float64{-2, -1, -1}, [3]float64{2, 1, 1}, 0.25)
}

func TestUnknownAndDegenerateSolids(t *testing.T) {
	sc := scene.NewMemory()
	if _, err := tessellate.Solid(sc, newKernel(), 7, 0); err == nil {
		t.Error("Solid() on unknown handle: want error")
	}

	h := sc.CreateThinBox(1, 1, 1)
	sc.SetAxisScale(h, geom.AxisY, 0)
	if _, err := tessellate.Tessellate(sc, newKernel(), 0); err == nil {
		t.Error("Tessellate() with zero extent: want error")
	}
}

func TestMeshPerSolid(t *testing.T) {
	sc := scene.NewMemory()
	a := sc.CreateThinBox(1, 1, 1)
	b := sc.CreateThinCylinder(1, 1)
	sc.SetWorldPosition(b, geom.Vec{X: 5})

	meshes, err := tessellate.Tessellate(sc, newKernel(), 16)
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	if meshes[0].Solid != uint64(a) || meshes[1].Solid != uint64(b) {
		t.Errorf("mesh order = %d, %d; want %d, %d", meshes[0].Solid, meshes[1].Solid, a, b)
	}
}
