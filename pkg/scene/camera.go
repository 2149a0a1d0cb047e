package scene

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Ray is a half line. Dir is unit length.
type Ray struct {
	Origin geom.Vec
	Dir    geom.Vec
}

// At returns the point at parameter t.
func (r Ray) At(t float64) geom.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// Camera is a pinhole camera used to turn screen coordinates into pick
// rays. Screen (0, 0) is the top-left corner of the viewport.
type Camera struct {
	Eye    geom.Vec
	Target geom.Vec
	Up     geom.Vec
	FovY   float64 // vertical field of view, degrees
	Width  float64 // viewport, pixels
	Height float64
}

// DefaultCamera looks at the origin from +Z, 45° field of view, 800×600.
func DefaultCamera() Camera {
	return Camera{
		Eye:    geom.Vec{Z: 20},
		Target: geom.Vec{},
		Up:     geom.UnitY,
		FovY:   45,
		Width:  800,
		Height: 600,
	}
}

// Ray returns the world-space ray through a screen point.
func (c Camera) Ray(screenX, screenY float64) Ray {
	forward := geom.SafeNormalize(c.Target.Sub(c.Eye), geom.Vec{Z: -1})
	right := geom.SafeNormalize(forward.Cross(c.Up), geom.UnitX)
	up := right.Cross(forward)

	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	half := math.Tan(geom.Deg2Rad(c.FovY) / 2)
	x := (2*screenX/w - 1) * half * (w / h)
	y := (1 - 2*screenY/h) * half

	dir := forward.Add(right.MulScalar(x)).Add(up.MulScalar(y))
	return Ray{Origin: c.Eye, Dir: geom.SafeNormalize(dir, forward)}
}
