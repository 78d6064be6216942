package interact

import (
	"math"

	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/render"
)

const (
	MinScale    = 0.1
	MaxScale    = 3.0
	ScaleFactor = 1.1
)

// Camera maps world to screen coordinates: screen = world*Scale + Pan
type Camera = render.Camera

// DefaultCamera is the identity transform
func DefaultCamera() Camera {
	return Camera{Scale: 1}
}

// ScreenToWorld inverts the camera transform
func ScreenToWorld(c Camera, p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - c.PanX) / c.Scale,
		Y: (p.Y - c.PanY) / c.Scale,
	}
}

// WorldToScreen applies the camera transform
func WorldToScreen(c Camera, p geometry.Point) geometry.Point {
	return geometry.Point{
		X: p.X*c.Scale + c.PanX,
		Y: p.Y*c.Scale + c.PanY,
	}
}

// ClampScale limits s to [MinScale, MaxScale]
func ClampScale(s float64) float64 {
	return math.Min(math.Max(s, MinScale), MaxScale)
}

// Zoom scales around the screen point pointer so the world point under it
// stays put. Negative deltaY zooms in.
func Zoom(c Camera, pointer geometry.Point, deltaY float64) Camera {
	world := ScreenToWorld(c, pointer)

	scale := c.Scale
	if deltaY < 0 {
		scale *= ScaleFactor
	} else {
		scale /= ScaleFactor
	}
	scale = ClampScale(scale)

	return Camera{
		PanX:  pointer.X - world.X*scale,
		PanY:  pointer.Y - world.Y*scale,
		Scale: scale,
	}
}
