package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/extrude"
	"github.com/chazu/kerf/pkg/face"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/scene"
	"github.com/chazu/kerf/pkg/solid"
	"github.com/chazu/kerf/pkg/studio"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ExtrusionEvent is the Wails event name for extrusion updates.
const ExtrusionEvent = "extrusion:update"

// colorPalette is a default palette used to assign distinct colors to solids.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via
// bindings. Wails calls bindings from several goroutines, so every
// method holds mu.
type App struct {
	ctx context.Context

	mu        sync.Mutex
	settings  config.Settings
	engine    *engine.Engine
	kernel    kernel.Kernel
	workspace *studio.Workspace
	lastPick  scene.Hit

	// notify receives every extrusion event; nil forwards to Wails.
	notify func(ExtrusionEventData)
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	SolidID  uint64    `json:"solidId"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
}

// PickResult describes the face under a screen point.
type PickResult struct {
	Hit     bool       `json:"hit"`
	SolidID uint64     `json:"solidId"`
	Face    string     `json:"face"`
	Point   [3]float64 `json:"point"`
}

// ExtrusionEventData is the payload of an ExtrusionEvent.
type ExtrusionEventData struct {
	SolidID         uint64  `json:"solidId"`
	Distance        float64 `json:"distance"`
	IsPreview       bool    `json:"isPreview"`
	ResultingHeight float64 `json:"resultingHeight"`
	Axis            string  `json:"axis"`
	Extent          float64 `json:"extent"`
}

// UpdateResult is returned from UpdateExtrusion.
type UpdateResult struct {
	Applied bool      `json:"applied"`
	Mesh    *MeshData `json:"mesh,omitempty"`
}

// NewApp creates an App with default settings.
func NewApp() *App {
	return NewAppWithSettings(config.Default())
}

// NewAppWithSettings creates an App whose engine and kernel follow s. An
// unusable kernel choice falls back to sdfx.
func NewAppWithSettings(s config.Settings) *App {
	k, err := studio.NewKernel(s)
	if err != nil {
		log.Printf("kernel %q unavailable, using sdfx: %v", s.Kernel, err)
		k = sdfx.NewWithCells(s.MeshCells)
	}
	a := &App{
		settings: s,
		engine:   engine.NewEngineWithSettings(s),
		kernel:   k,
	}
	a.workspace = a.adopt(studio.New(s))
	return a
}

// startup is called by Wails on app startup. The context is saved
// for runtime event emission.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

// adopt routes w's extrusion events through the app.
func (a *App) adopt(w *studio.Workspace) *studio.Workspace {
	w.Extruder.SetListener(extrude.ListenerFunc(a.forward))
	return w
}

// forward runs inside controller calls, which already hold mu.
func (a *App) forward(e extrude.Event) {
	data := ExtrusionEventData{
		SolidID:         uint64(e.Solid),
		Distance:        e.Distance,
		IsPreview:       e.IsPreview,
		ResultingHeight: e.ResultingHeight,
		Axis:            e.Axis.String(),
		Extent:          e.Extent,
	}
	if a.notify != nil {
		a.notify(data)
		return
	}
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, ExtrusionEvent, data)
	}
}

// Evaluate takes sketch source and returns mesh data + errors. On any
// error the previous workspace stays current.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a fresh workspace.
	w, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Step 3: Tessellate before swapping, so a failure keeps the old scene.
	meshes, err := a.meshes(w)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	a.workspace = a.adopt(w)
	a.lastPick = scene.Hit{}
	result.Meshes = meshes
	return result
}

// Meshes returns the current scene's meshes.
func (a *App) Meshes() ([]MeshData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.meshes(a.workspace)
}

func (a *App) meshes(w *studio.Workspace) ([]MeshData, error) {
	meshes, err := w.Meshes(a.kernel)
	if err != nil {
		return nil, err
	}
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, toMeshData(m, colorPalette[i%len(colorPalette)]))
	}
	return out, nil
}

func toMeshData(m *kernel.Mesh, color string) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		SolidID:  m.Solid,
		Name:     m.Name,
		Color:    color,
	}
}

// Pick reports the face under a viewport point.
func (a *App) Pick(x, y float64) PickResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	hit, ok := a.workspace.Pick(x, y)
	if !ok {
		a.lastPick = scene.Hit{}
		return PickResult{}
	}
	a.lastPick = hit
	return PickResult{
		Hit:     true,
		SolidID: uint64(hit.Solid),
		Face:    string(hit.Face),
		Point:   [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
	}
}

// BeginExtrusion opens a session on face of solidID. An empty face falls
// back to the owning plane's normal. When the last Pick hit the same solid
// its point is passed along, so cylinder picks classify cap against side.
func (a *App) BeginExtrusion(solidID uint64, faceName string) error {
	q, err := faceQuery(solidID, faceName)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastPick.Solid == q.Solid && !q.Solid.IsZero() {
		q.Point, q.HasPoint = a.lastPick.Point, true
	}
	_, err = a.workspace.BeginExtrusion(q)
	return err
}

// BeginExtrusionAt is BeginExtrusion with an explicit world pick point.
func (a *App) BeginExtrusionAt(solidID uint64, faceName string, x, y, z float64) error {
	q, err := faceQuery(solidID, faceName)
	if err != nil {
		return err
	}
	q.Point, q.HasPoint = geom.Vec{X: x, Y: y, Z: z}, true

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.workspace.BeginExtrusion(q)
	return err
}

func faceQuery(solidID uint64, faceName string) (face.Query, error) {
	q := face.Query{Solid: solid.Handle(solidID)}
	if faceName != "" {
		f, err := solid.ParseFaceID(faceName)
		if err != nil {
			return q, err
		}
		q.Face = f
	}
	return q, nil
}

// UpdateExtrusion feeds one drag sample and returns the re-meshed solid.
func (a *App) UpdateExtrusion(distance float64, final bool) (UpdateResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess := a.workspace.Extruder.Session()
	if sess == nil {
		return UpdateResult{}, nil
	}
	h := sess.Solid
	if !a.workspace.UpdateExtrusion(distance, final) {
		return UpdateResult{}, nil
	}

	m, err := tessellate.Solid(a.workspace.Scene, a.kernel, h, a.settings.CylinderSegments)
	if err != nil {
		return UpdateResult{Applied: true}, fmt.Errorf("tessellate %s: %w", h, err)
	}
	md := toMeshData(m, a.colorOf(h))
	return UpdateResult{Applied: true, Mesh: &md}, nil
}

// CancelExtrusion abandons the open session.
func (a *App) CancelExtrusion() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.workspace.CancelExtrusion()
}

// colorOf returns the palette color Meshes assigns to h.
func (a *App) colorOf(h solid.Handle) string {
	for i, other := range a.workspace.Scene.Handles() {
		if other == h {
			return colorPalette[i%len(colorPalette)]
		}
	}
	return colorPalette[0]
}
