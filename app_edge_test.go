package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/solid"
)

// ---------------------------------------------------------------------------
// Result shape
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	// Slices must be non-nil so JSON serializes as [] not null.
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(";; nothing here\n; still nothing\n")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for comment-only source, got %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := newTestApp()

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	result := app.Evaluate("(+ 1 2)\n(plane :default :xy")
	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
}

// ---------------------------------------------------------------------------
// Invalid shapes
// ---------------------------------------------------------------------------

func TestE2EZeroWidthRectangle(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`(def p (plane :default :xy)) (rect p :width 0 :height 2)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a zero-width rectangle")
	}
	if !strings.Contains(result.Errors[0].Message, "rect") {
		t.Errorf("error should name the form, got %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2EUnknownFace(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(`
(def p (plane :default :xy))
(def c (circle p :radius 1))
(extrude c :face :top :distance 1)
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an unknown face")
	}
	if !strings.Contains(result.Errors[0].Message, "invalid face") {
		t.Errorf("unexpected message %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Errors keep the previous scene
// ---------------------------------------------------------------------------

func TestE2EErrorKeepsPreviousWorkspace(t *testing.T) {
	app := newTestApp()
	ok := app.Evaluate(`
(def p (plane :default :xy))
(def r (rect p :width 2 :height 2))
(extrude r :distance 2)
`)
	if len(ok.Errors) > 0 {
		t.Fatalf("eval errors: %v", ok.Errors)
	}

	bad := app.Evaluate(`(rect)`)
	if len(bad.Errors) == 0 {
		t.Fatal("expected an error")
	}

	meshes, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Errorf("expected the previous scene's 1 mesh, got %d", len(meshes))
	}
}

// ---------------------------------------------------------------------------
// Bindings without a session
// ---------------------------------------------------------------------------

func TestE2ENoSessionIsNoOp(t *testing.T) {
	app := newTestApp()

	res, err := app.UpdateExtrusion(3, true)
	if err != nil {
		t.Fatalf("UpdateExtrusion: %v", err)
	}
	if res.Applied || res.Mesh != nil {
		t.Errorf("update without a session should do nothing, got %+v", res)
	}
	if app.CancelExtrusion() {
		t.Error("cancel without a session should report false")
	}
	if pick := app.Pick(400, 300); pick.Hit {
		t.Errorf("empty scene pick should miss, got %+v", pick)
	}
}

func TestE2EBeginExtrusionErrors(t *testing.T) {
	app := newTestApp()
	if err := app.BeginExtrusion(42, "pos-z"); err == nil {
		t.Error("expected an error for an unknown solid")
	}
	if err := app.BeginExtrusion(1, "bogus"); err == nil || !strings.Contains(err.Error(), "invalid face") {
		t.Errorf("expected an invalid face error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Rapid evaluation (debounce simulation)
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources. The engine must
	// recover cleanly between error and success states.
	app := newTestApp()

	sources := []string{
		`(def p (plane :default :xy)) (rect p :width 1 :height 1)`,
		`(rect p`,
		``,
		`(extrude missing :distance 1)`,
		`(def p (plane :default :yz)) (circle p :radius 2)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(undefined-func 1 2 3)`,
		`(def p (plane :default :xz)) (def r (rect p :width 2 :height 1)) (extrude r :distance 1)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	meshes, err := app.Meshes()
	if err != nil {
		t.Fatalf("Meshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Errorf("expected the last valid scene's 1 mesh, got %d", len(meshes))
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := newTestApp()

	var b strings.Builder
	b.WriteString("(def p (plane :default :xy))\n")
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "(extrude (rect p :corner (vec2 %d 0) :width 1 :height 1) :distance 1)\n", i*2)
	}
	result := app.Evaluate(b.String())
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	if result.Meshes[8].Color != result.Meshes[0].Color {
		t.Errorf("expected palette to wrap: mesh 8 color %q, mesh 0 color %q",
			result.Meshes[8].Color, result.Meshes[0].Color)
	}
	if result.Meshes[1].Color == result.Meshes[0].Color {
		t.Error("neighbouring meshes should get distinct colors")
	}
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func TestE2EUnknownKernelFallsBack(t *testing.T) {
	s := config.Default()
	s.Kernel = "cgal"
	s.MeshCells = 40
	app := NewAppWithSettings(s)

	result := app.Evaluate(`(def p (plane :default :xy)) (extrude (rect p :width 1 :height 1) :distance 1)`)
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 || len(result.Meshes[0].Vertices) == 0 {
		t.Error("expected the sdfx fallback to mesh one solid")
	}
}

// ---------------------------------------------------------------------------
// Cylinder side picks
// ---------------------------------------------------------------------------

const flatDisk = `(def p (plane :default :xy)) (circle p :radius 1)`

func TestE2ECylinderSideAtPoint(t *testing.T) {
	app := newTestApp()
	if res := app.Evaluate(flatDisk); len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}
	h := app.workspace.Scene.Handles()[0]

	if err := app.BeginExtrusionAt(uint64(h), "side", 1, 0, 0.005); err != nil {
		t.Fatalf("BeginExtrusionAt: %v", err)
	}
	sess := app.workspace.Extruder.Session()
	if !geom.VecNearlyEqual(sess.Normal, geom.UnitX, 1e-9) {
		t.Errorf("normal = %v, want +X", sess.Normal)
	}
	if sess.Axis != geom.AxisX {
		t.Errorf("axis = %s, want x", sess.Axis)
	}
}

func TestE2ECylinderSideFromLastPick(t *testing.T) {
	app := newTestApp()
	if res := app.Evaluate(flatDisk); len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}
	h := app.workspace.Scene.Handles()[0]
	app.lastPick = scene.Hit{Solid: h, Face: solid.FaceSide, Point: geom.Vec{Y: -1, Z: 0.005}}

	if err := app.BeginExtrusion(uint64(h), "side"); err != nil {
		t.Fatalf("BeginExtrusion: %v", err)
	}
	sess := app.workspace.Extruder.Session()
	if !geom.VecNearlyEqual(sess.Normal, geom.Vec{Y: -1}, 1e-9) {
		t.Errorf("normal = %v, want -Y", sess.Normal)
	}
	res, err := app.UpdateExtrusion(1, true)
	if err != nil {
		t.Fatalf("UpdateExtrusion: %v", err)
	}
	if !res.Applied {
		t.Error("expected the update to apply")
	}
}

func TestE2ELastPickIgnoredForOtherSolid(t *testing.T) {
	app := newTestApp()
	res := app.Evaluate(`(def p (plane :default :xy)) (circle p :radius 1) (circle p :center (vec2 5 0) :radius 1)`)
	if len(res.Errors) > 0 {
		t.Fatalf("eval errors: %v", res.Errors)
	}
	hs := app.workspace.Scene.Handles()
	app.lastPick = scene.Hit{Solid: hs[0], Face: solid.FaceSide, Point: geom.Vec{X: 1, Z: 0.005}}

	// Without a point for this solid the side falls back to the plane normal.
	if err := app.BeginExtrusion(uint64(hs[1]), "side"); err != nil {
		t.Fatalf("BeginExtrusion: %v", err)
	}
	if n := app.workspace.Extruder.Session().Normal; !geom.VecNearlyEqual(n, geom.UnitZ, 1e-9) {
		t.Errorf("normal = %v, want +Z", n)
	}
}
