package extrude

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/geom"
	"github.com/stretchr/testify/assert"
)

const t0 = 0.01

// flatBox is a 4×2 rectangle at the origin of the XY plane, fresh from
// synthesis.
func flatBox(axis geom.Axis, dir float64) Base {
	return Base{
		Native:        geom.Vec{X: 4, Y: 2, Z: t0},
		Scale:         geom.Vec{X: 1, Y: 1, Z: 1},
		Center:        geom.Vec{X: 2, Y: 1, Z: t0 / 2},
		Orientation:   geom.Identity(),
		Axis:          axis,
		Direction:     dir,
		ThicknessAxis: geom.AxisZ,
		Flat:          true,
		Floor:         t0,
		PlaneNormal:   geom.UnitZ,
	}
}

func TestSolveFlatTopFace(t *testing.T) {
	r := Solve(flatBox(geom.AxisZ, 1), 3)
	assert.InDelta(t, 3, r.Extent, 1e-12)
	assert.InDelta(t, 3/t0, r.Scale, 1e-9)
	assert.InDelta(t, 1.5, r.Position.Z, 1e-12)
	assert.InDelta(t, 2, r.Position.X, 1e-12)
	assert.True(t, r.HeightChanged)
	assert.InDelta(t, 3, r.Height, 1e-12)

	// Matches originalCenter + N·(L - t0)/2.
	assert.InDelta(t, t0/2+(3-t0)/2, r.Position.Z, 1e-12)
}

func TestSolveFlatBottomFaceGrowsBelowPlane(t *testing.T) {
	r := Solve(flatBox(geom.AxisZ, -1), 2)
	assert.InDelta(t, 2, r.Extent, 1e-12)
	assert.InDelta(t, -1, r.Position.Z, 1e-12)
	assert.InDelta(t, -2, r.Height, 1e-12)
}

func TestSolveAnchorStaysFixed(t *testing.T) {
	b := flatBox(geom.AxisZ, 1)
	for _, d := range []float64{-5, -0.3, 0, 0.001, 0.5, 2, 17} {
		r := Solve(b, d)
		// The plane-side face never moves.
		if r.Position.Z >= 0 {
			assert.InDelta(t, 0, r.Position.Z-r.Extent/2, 1e-12, "d=%g", d)
		} else {
			assert.InDelta(t, 0, r.Position.Z+r.Extent/2, 1e-12, "d=%g", d)
		}
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	b := flatBox(geom.AxisZ, 1)
	first := Solve(b, 1.25)
	Solve(b, 7)
	assert.Equal(t, first, Solve(b, 1.25))
}

func TestSolveFloorGuard(t *testing.T) {
	b := flatBox(geom.AxisZ, 1)
	for _, d := range []float64{0, t0 / 3, -t0 / 3} {
		r := Solve(b, d)
		assert.InDelta(t, t0, r.Extent, 1e-15, "d=%g", d)
	}
	// Zero length resolves to the positive side.
	r := Solve(b, 0)
	assert.InDelta(t, t0/2, r.Position.Z, 1e-15)
	assert.Greater(t, r.Height, 0.0)

	// No upper bound.
	assert.InDelta(t, 1e6, Solve(b, 1e6).Extent, 1e-6)
}

func TestSolveFromExistingHeightShrinks(t *testing.T) {
	b := flatBox(geom.AxisZ, 1)
	b.Scale.Z = 3 / t0
	b.Center.Z = 1.5
	b.Flat = false

	r := Solve(b, -1)
	assert.InDelta(t, 2, r.Extent, 1e-9)
	assert.InDelta(t, 1, r.Position.Z, 1e-9)
	// Top face moved from 3 to 2; bottom stayed on the plane.
	assert.InDelta(t, 2, r.Position.Z+r.Extent/2, 1e-9)
	assert.InDelta(t, 0, r.Position.Z-r.Extent/2, 1e-9)
	assert.InDelta(t, 2, r.Height, 1e-9)
}

func TestSolveSideAxisKeepsHeight(t *testing.T) {
	b := flatBox(geom.AxisX, 1)
	r := Solve(b, 1)
	assert.Equal(t, geom.AxisX, r.Axis)
	assert.InDelta(t, 5, r.Extent, 1e-12)
	assert.InDelta(t, 1.25, r.Scale, 1e-12)
	// -X face stays at x = 0.
	assert.InDelta(t, 2.5, r.Position.X, 1e-12)
	// A flat solid takes its synthesized thickness as height.
	assert.True(t, r.HeightChanged)
	assert.InDelta(t, t0, r.Height, 1e-12)

	b = flatBox(geom.AxisY, -1)
	b.Flat = false
	r = Solve(b, 2)
	// +Y face stays at y = 2.
	assert.InDelta(t, 4, r.Extent, 1e-12)
	assert.InDelta(t, 0, r.Position.Y, 1e-12)
	assert.False(t, r.HeightChanged)
}

// extruded is flatBox after a committed thickness session of height h.
func extruded(h float64, dir float64) Base {
	b := flatBox(geom.AxisZ, dir)
	b.Flat = false
	b.HeightSign = h
	b.Scale.Z = math.Abs(h) / t0
	b.Center.Z = h / 2
	return b
}

func TestSolveOppositeFaceAddsToHeight(t *testing.T) {
	b := extruded(3, -1)
	r := Solve(b, 4)
	assert.InDelta(t, 7, r.Height, 1e-9)
	assert.InDelta(t, 7, r.Extent, 1e-9)
	// The top face anchors; the bottom moves from 0 to -4.
	assert.InDelta(t, 3, r.Position.Z+r.Extent/2, 1e-9)
	assert.InDelta(t, -4, r.Position.Z-r.Extent/2, 1e-9)
}

func TestSolveHeightIsContinuousThroughPlane(t *testing.T) {
	b := extruded(3, -1)
	prev := Solve(b, 2.9).Height
	for _, d := range []float64{2.95, 3, 3.05, 3.1, 3.5} {
		h := Solve(b, d).Height
		assert.InDelta(t, 3+d, h, 1e-9, "d=%g", d)
		assert.Greater(t, h, prev, "d=%g", d)
		prev = h
	}
}

func TestSolveNegativeHeightKeepsSign(t *testing.T) {
	// Grown below the plane to -2, then the bottom face is pulled 1 further.
	b := extruded(-2, -1)
	r := Solve(b, 1)
	assert.InDelta(t, -3, r.Height, 1e-9)
	assert.InDelta(t, -3, r.Position.Z-r.Extent/2, 1e-9)
	assert.InDelta(t, 0, r.Position.Z+r.Extent/2, 1e-9)
}

func TestSolveRotatedSolid(t *testing.T) {
	// Box standing on the YZ plane: thickness axis along world +X.
	b := flatBox(geom.AxisZ, 1)
	b.Orientation = geom.FromBasis(geom.Vec{Z: -1}, geom.UnitY, geom.UnitX)
	b.Center = geom.Vec{X: t0 / 2}
	b.PlaneNormal = geom.UnitX

	r := Solve(b, 4)
	assert.True(t, geom.VecNearlyEqual(geom.Vec{X: 2}, r.Position, 1e-12), "pos = %v", r.Position)
	assert.InDelta(t, 4, r.Height, 1e-12)
}
