// Package config loads kerf settings from a TOML file. A missing file
// yields the defaults; a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Kernel backends selectable by name.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Settings holds every tunable of the sketch core and the desktop shell.
type Settings struct {
	// MinThickness is the thickness of a freshly synthesized solid and the
	// smallest extent an extrusion may shrink a solid to.
	MinThickness float64 `toml:"min_thickness"`
	// CapRadiusRatio splits cylinder picks: radial distance below
	// ratio × radius is a cap, otherwise the curved side.
	CapRadiusRatio float64 `toml:"cap_radius_ratio"`
	// HorizontalThreshold is the |dot(normal, up)| above which plane
	// construction switches to the world right reference vector.
	HorizontalThreshold float64 `toml:"horizontal_threshold"`

	CylinderSegments int    `toml:"cylinder_segments"`
	MeshCells        int    `toml:"mesh_cells"`
	Kernel           string `toml:"kernel"`

	EvalTimeout Duration `toml:"eval_timeout"`
}

// Duration is a time.Duration that reads and writes as a string ("5s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		MinThickness:        0.01,
		CapRadiusRatio:      0.8,
		HorizontalThreshold: 0.9,
		CylinderSegments:    32,
		MeshCells:           200,
		Kernel:              KernelSdfx,
		EvalTimeout:         Duration{5 * time.Second},
	}
}

// Load reads settings from path. Keys absent from the file keep their
// defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Marshal encodes s as TOML.
func (s Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

// Validate rejects settings the core cannot work with.
func (s Settings) Validate() error {
	var errs []error
	if s.MinThickness <= 0 {
		errs = append(errs, fmt.Errorf("min_thickness is %g, must be positive", s.MinThickness))
	}
	if s.CapRadiusRatio <= 0 || s.CapRadiusRatio >= 1 {
		errs = append(errs, fmt.Errorf("cap_radius_ratio is %g, must be in (0, 1)", s.CapRadiusRatio))
	}
	if s.HorizontalThreshold <= 0 || s.HorizontalThreshold >= 1 {
		errs = append(errs, fmt.Errorf("horizontal_threshold is %g, must be in (0, 1)", s.HorizontalThreshold))
	}
	if s.CylinderSegments < 3 {
		errs = append(errs, fmt.Errorf("cylinder_segments is %d, must be at least 3", s.CylinderSegments))
	}
	if s.MeshCells < 8 {
		errs = append(errs, fmt.Errorf("mesh_cells is %d, must be at least 8", s.MeshCells))
	}
	if s.Kernel != KernelSdfx && s.Kernel != KernelManifold {
		errs = append(errs, fmt.Errorf("kernel %q is unknown, expected %q or %q", s.Kernel, KernelSdfx, KernelManifold))
	}
	if s.EvalTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("eval_timeout is %s, must be positive", s.EvalTimeout.Duration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
